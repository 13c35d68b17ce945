package models

import (
	"time"
)

const (
	InquiryStatusNew        = "new"
	InquiryStatusInProgress = "in_progress"
	InquiryStatusCompleted  = "completed"
	InquiryStatusCancelled  = "cancelled"
)

// inquiryTransitions maps each status to the statuses it may move to.
// Completed and cancelled are terminal.
var inquiryTransitions = map[string][]string{
	InquiryStatusNew:        {InquiryStatusInProgress, InquiryStatusCancelled},
	InquiryStatusInProgress: {InquiryStatusCompleted, InquiryStatusCancelled},
	InquiryStatusCompleted:  {},
	InquiryStatusCancelled:  {},
}

// ValidInquiryStatus reports whether s is a known inquiry status.
func ValidInquiryStatus(s string) bool {
	_, ok := inquiryTransitions[s]
	return ok
}

// Inquiry is a buyer's request for quotation against a catalog product.
// Product name and contact fields are snapshotted at submission time so the
// record stays meaningful if the product or profile changes later.
type Inquiry struct {
	ID          string
	AccountID   string
	ProductID   string
	ProductName string
	ContactName string
	Email       string
	Phone       string
	CompanyName string
	Quantity    int
	Message     string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanTransitionTo reports whether the inquiry may move to the given status.
func (i *Inquiry) CanTransitionTo(status string) bool {
	for _, next := range inquiryTransitions[i.Status] {
		if next == status {
			return true
		}
	}
	return false
}
