package helpdesk

import (
	"sort"
	"time"

	"deskhub/internal/shared/htmltext"
)

// SmallBodyLimit is the fixed rune length of the SmallBody projection used
// by list views.
const SmallBodyLimit = 200

// Task is a unified ticket. Optional dates are nil when the backend reported
// its sentinel "empty date" value.
type Task struct {
	Origin      Origin       `json:"origin"`
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	SmallBody   string       `json:"small_body"`
	Status      string       `json:"status"`
	CreatedDate *time.Time   `json:"created_date,omitempty"`
	TimeoutDate *time.Time   `json:"timeout_date,omitempty"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	Initiator   Person       `json:"initiator"`
	Executor    Person       `json:"executor"`
	Route       *Route       `json:"route,omitempty"`
	Service     *Service     `json:"service,omitempty"`
	Files       []TicketFile `json:"files,omitempty"`
	Comments    []Comment    `json:"comments,omitempty"`
}

// Person is a ticket participant. Department and Division arrive from the
// legacy desk as one comma-joined field and are split by the adapter.
type Person struct {
	Login      string `json:"login"`
	FullName   string `json:"full_name,omitempty"`
	Department string `json:"department,omitempty"`
	Division   string `json:"division,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// TicketFile is an attachment. Body is populated only by a dedicated file
// fetch; list and detail fetches leave it nil.
type TicketFile struct {
	Origin Origin `json:"origin"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Ext    string `json:"ext,omitempty"`
	Mime   string `json:"mime,omitempty"`
	Body   []byte `json:"body,omitempty"`
}

// Comment is a ticket discussion entry. ParentCode references the comment it
// replies to, empty for top-level comments.
type Comment struct {
	Origin      Origin       `json:"origin"`
	Date        *time.Time   `json:"date,omitempty"`
	AuthorLogin string       `json:"author_login"`
	Body        string       `json:"body"`
	Code        string       `json:"code"`
	ParentCode  string       `json:"parent_code,omitempty"`
	Files       []TicketFile `json:"files,omitempty"`
}

// TaskCreated acknowledges a successful task submission.
type TaskCreated struct {
	Origin Origin `json:"origin"`
	ID     string `json:"id"`
	Code   string `json:"code"`
}

// TaskFilter narrows a task list fetch. Zero value means no filtering.
type TaskFilter struct {
	Status string `json:"status,omitempty"`
}

// TaskRef addresses one task on the backend that owns it.
type TaskRef struct {
	Origin Origin `json:"origin"`
	ID     string `json:"id"`
}

// FileRef addresses one attachment on the backend that owns it. Name is
// carried because the legacy desk requires it alongside the identifier.
type FileRef struct {
	Origin Origin `json:"origin"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
}

// Attachment is an already-materialized upload handed to submit/edit
// operations. Upload collection happens upstream.
type Attachment struct {
	Name string `json:"name"`
	Body []byte `json:"body"`
}

// NewTask is the payload for creating a ticket.
type NewTask struct {
	RouteCode   string `json:"route_code"`
	ServiceCode string `json:"service_code"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// TaskEdit is the payload for updating a ticket.
type TaskEdit struct {
	ID      string `json:"id"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
	Status  string `json:"status,omitempty"`
}

// SmallBodyOf computes the list-view projection of an HTML body: tags
// stripped, entities decoded, truncated to SmallBodyLimit runes. Idempotent
// for a given body.
func SmallBodyOf(body string) string {
	return htmltext.StripAndTruncate(body, SmallBodyLimit)
}

// SortTasks orders tasks reverse-chronologically by CreatedDate. A task
// without a date compares equal to everything, so the stable sort leaves its
// relative position untouched rather than forcing it to either end.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedDate == nil || tasks[j].CreatedDate == nil {
			return false
		}
		return tasks[i].CreatedDate.After(*tasks[j].CreatedDate)
	})
}
