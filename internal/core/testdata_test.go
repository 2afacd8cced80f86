package core

func sampleRecords() []ExpenseRecord {
	return []ExpenseRecord{
		{ID: "1", Description: "Team lunch at Olive Garden", Amount: Money{Cents: 8999}, Category: "Food", Department: "Sales", Date: NewDate(2023, 9, 15), Status: StatusApproved, AttachmentCount: 1},
		{ID: "2", Description: "Office supplies from Staples", Amount: Money{Cents: 4250}, Category: "Office", Department: "HR", Date: NewDate(2023, 9, 12), Status: StatusPending, AttachmentCount: 2},
		{ID: "3", Description: "Uber to client meeting", Amount: Money{Cents: 2500}, Category: "Travel", Department: "Sales", Date: NewDate(2023, 9, 10), Status: StatusApproved, AttachmentCount: 0},
		{ID: "4", Description: "Software subscription", Amount: Money{Cents: 9999}, Category: "Software", Department: "Engineering", Date: NewDate(2023, 9, 8), Status: StatusRejected, AttachmentCount: 1},
		{ID: "5", Description: "Hotel for conference", Amount: Money{Cents: 45000}, Category: "Travel", Department: "Engineering", Date: NewDate(2023, 9, 5), Status: StatusApproved, AttachmentCount: 3},
		{ID: "6", Description: "Client dinner", Amount: Money{Cents: 12075}, Category: "Food", Department: "Sales", Date: NewDate(2023, 9, 3), Status: StatusPending, AttachmentCount: 1},
		{ID: "7", Description: "Marketing materials print", Amount: Money{Cents: 15000}, Category: "Marketing", Department: "Marketing", Date: NewDate(2023, 8, 28), Status: StatusApproved, AttachmentCount: 0},
		{ID: "8", Description: "Train tickets", Amount: Money{Cents: 7850}, Category: "Travel", Department: "Finance", Date: NewDate(2023, 8, 25), Status: StatusApproved, AttachmentCount: 2},
	}
}

func ids(records []ExpenseRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
