package noticeparser

import "strings"

const sampleNoticeTemplate = `FIRST NATIONAL LENDING CORP.
INTEREST PAYMENT NOTICE

Notice Date: 04/01/2024
Reference No: INV-2024-0331

Borrower: Acme Manufacturing LLC
Facility: Term Loan A

Principal Amount: $1,000,000.00
Interest Rate: 5.25% per annum
Day Count Convention: Actual/360

Interest Period Start Date: 01/01/2024
Interest Period End Date: 03/31/2024

Interest Amount Due: {{AMOUNT}}
Payment Due Date: 04/05/2024

Please remit payment by wire transfer to the account on file.
`

// SampleNotice returns the text of a demonstration notice for a 90 day
// period. The correct variant states $13,125.00, the incorrect one $15,000.00.
func SampleNotice(correct bool) string {
	amount := "$15,000.00"
	if correct {
		amount = "$13,125.00"
	}
	return strings.Replace(sampleNoticeTemplate, "{{AMOUNT}}", amount, 1)
}
