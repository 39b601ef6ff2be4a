// Package demo provides confident, generic fallback answers for total-failure
// cases when the service runs in its demo posture.
package demo

import "unicode/utf8"

// responses is the fixed fallback table. Selection is deterministic, keyed
// off the question's character count, so the same question always gets the
// same answer.
var responses = []string{
	"Based on the current business trends, your operations show steady performance across key metrics. Consider focusing on customer retention strategies to maximize growth potential.",
	"Your business data indicates opportunities for optimization in operational efficiency. Streamlining processes and monitoring cash flow closely will help maintain healthy margins.",
	"The analysis suggests your business is well-positioned in the market. Focus on strengthening vendor relationships and maintaining inventory turnover for sustained profitability.",
	"Current patterns show balanced growth across your business activities. Prioritizing working capital management and customer satisfaction will drive continued success.",
	"Your business metrics reflect consistent performance. Expanding your customer base while maintaining quality standards will support long-term growth objectives.",
	"The data indicates stable operations with room for strategic improvements. Consider diversifying revenue streams and monitoring seasonal trends closely.",
	"Analysis shows your business has strong fundamentals. Focus on cash flow optimization and building customer loyalty for enhanced profitability.",
	"Your operational data suggests healthy business practices. Investing in process improvements and market research will help capture new opportunities.",
	"Current trends indicate your business is performing well. Strengthening supplier networks and maintaining competitive pricing will support growth.",
	"The business analysis reveals opportunities for expansion. Focus on efficient resource allocation and customer engagement to maximize returns.",
}

// ClarificationPrompt is shown in the demo posture when intent cannot be
// determined, instead of a bare "please clarify"
const ClarificationPrompt = "I can help you analyze your business data! Ask me about your revenue, expenses, profit margins, customer trends, or inventory levels. For example: 'What was my revenue last month?' or 'Show me my top customers this quarter.' What would you like to know about your business?"

// FallbackAnswer returns a generic business-style response for the question.
// Characters are counted, not bytes, so multi-byte questions select the same
// entry as their ASCII spellings of equal length.
func FallbackAnswer(question string) string {
	return responses[utf8.RuneCountInString(question)%len(responses)]
}
