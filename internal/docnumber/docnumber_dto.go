package docnumber

type IssueNumberRequest struct {
	Scheme string `json:"scheme" binding:"required"`
	// Date selects the year/month bucket; today when empty.
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

type IssueNumberResponse struct {
	Number string `json:"number"`
	Scheme string `json:"scheme"`
}
