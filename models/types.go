package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Jurisdiction is a citizen's verified location. Empty fields are absent.
type Jurisdiction struct {
	Region        string `json:"region,omitempty"`
	ZoneOrSubcity string `json:"zone_or_subcity,omitempty"`
	Woreda        string `json:"woreda,omitempty"`
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID       string
	Role         Role
	Jurisdiction Jurisdiction
}

// Domain types

type Proposal struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	CreatedBy    string     `json:"created_by"`
	Scope        Scope      `json:"scope"`
	Target       string     `json:"target"`
	Category     Category   `json:"category"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       time.Time  `json:"ends_at"`
	IsActive     bool       `json:"is_active"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	DeletedBy    *string    `json:"deleted_by,omitempty"`
	TotalVotes   int        `json:"total_votes"`
	YesVotes     int        `json:"yes_votes"`
	NoVotes      int        `json:"no_votes"`
	AbstainVotes int        `json:"abstain_votes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Tally returns the denormalized counters.
func (p Proposal) Tally() Tally {
	return Tally{
		Total:   p.TotalVotes,
		Yes:     p.YesVotes,
		No:      p.NoVotes,
		Abstain: p.AbstainVotes,
	}
}

type Tally struct {
	Total   int `json:"total_votes"`
	Yes     int `json:"yes_votes"`
	No      int `json:"no_votes"`
	Abstain int `json:"abstain_votes"`
}

type Vote struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ProposalID string    `json:"proposal_id"`
	Choice     Choice    `json:"choice"`
	VotedAt    time.Time `json:"voted_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Admin struct {
	ID                    string    `json:"id"                        yaml:"id"`
	UserID                string    `json:"user_id"                   yaml:"userId"`
	AssignedRegion        string    `json:"assigned_region"           yaml:"assignedRegion"`
	AssignedZoneOrSubcity string    `json:"assigned_zone_or_subcity"  yaml:"assignedZoneOrSubcity"`
	AssignedWoreda        string    `json:"assigned_woreda"           yaml:"assignedWoreda"`
	JobDescription        string    `json:"job_description"           yaml:"jobDescription"`
	ContactInfo           string    `json:"contact_info,omitempty"    yaml:"contactInfo"`
	Permissions           []Scope   `json:"permissions"               yaml:"permissions"`
	IsActive              bool      `json:"is_active"                 yaml:"isActive"`
	CreatedAt             time.Time `json:"created_at"                yaml:"-"`
}

type Feedback struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Category    FeedbackCategory `json:"category"`
	Priority    Priority         `json:"priority"`
	Status      FeedbackStatus   `json:"status"`
	Region      string           `json:"region,omitempty"`
	Woreda      string           `json:"woreda,omitempty"`
	ProposalID  *string          `json:"proposal_id,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type Complaint struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Priority      Priority  `json:"priority"`
	ToAdmin       string    `json:"to_admin"`
	Region        string    `json:"region,omitempty"`
	ZoneOrSubcity string    `json:"zone_or_subcity,omitempty"`
	Woreda        string    `json:"woreda,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type Implementation struct {
	ID                 string               `json:"id"`
	ProposalID         string               `json:"proposal_id"`
	Status             ImplementationStatus `json:"status"`
	ProgressPercentage int                  `json:"progress_percentage"`
	BudgetAllocated    decimal.Decimal      `json:"budget_allocated"`
	BudgetSpent        decimal.Decimal      `json:"budget_spent"`
	StartDate          time.Time            `json:"start_date"`
	ExpectedCompletion time.Time            `json:"expected_completion"`
	ActualCompletion   *time.Time           `json:"actual_completion,omitempty"`
	Notes              string               `json:"notes,omitempty"`
	UpdatedBy          string               `json:"updated_by"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// Request types

type ProposalDraft struct {
	Title       string    `json:"title"       yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Category    Category  `json:"category"    yaml:"category"`
	Scope       Scope     `json:"scope"       yaml:"scope"`
	Target      string    `json:"target"      yaml:"target"`
	StartsAt    time.Time `json:"starts_at"   yaml:"startsAt"`
	EndsAt      time.Time `json:"ends_at"     yaml:"endsAt"`
}

type CastVoteRequest struct {
	ProposalID string `json:"proposal_id"`
	Choice     Choice `json:"choice"`
}

type UpdateVoteRequest struct {
	Choice Choice `json:"choice"`
}

type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type FeedbackRequest struct {
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Category   FeedbackCategory `json:"category"`
	Priority   Priority         `json:"priority"`
	ProposalID *string          `json:"proposal_id,omitempty"`
}

type FeedbackStatusRequest struct {
	Status FeedbackStatus `json:"status"`
}

type ComplaintRequest struct {
	Title         string   `json:"title"`
	Message       string   `json:"message"`
	Priority      Priority `json:"priority"`
	ToAdmin       string   `json:"to_admin"`
	Region        string   `json:"region,omitempty"`
	ZoneOrSubcity string   `json:"zone_or_subcity,omitempty"`
	Woreda        string   `json:"woreda,omitempty"`
}

type ImplementationRequest struct {
	ProposalID         string               `json:"proposal_id"`
	Status             ImplementationStatus `json:"status"`
	ProgressPercentage int                  `json:"progress_percentage"`
	BudgetAllocated    decimal.Decimal      `json:"budget_allocated"`
	BudgetSpent        decimal.Decimal      `json:"budget_spent"`
	StartDate          time.Time            `json:"start_date"`
	ExpectedCompletion time.Time            `json:"expected_completion"`
	ActualCompletion   *time.Time           `json:"actual_completion,omitempty"`
	Notes              string               `json:"notes,omitempty"`
}

type AdminRequest struct {
	UserID                string  `json:"user_id"`
	AssignedRegion        string  `json:"assigned_region"`
	AssignedZoneOrSubcity string  `json:"assigned_zone_or_subcity"`
	AssignedWoreda        string  `json:"assigned_woreda"`
	JobDescription        string  `json:"job_description"`
	ContactInfo           string  `json:"contact_info,omitempty"`
	Permissions           []Scope `json:"permissions"`
}

// Response types

type ProposalListResponse struct {
	Proposals []Proposal `json:"proposals"`
}

type ProposalResponse struct {
	Proposal Proposal `json:"proposal"`
}

type VoteResponse struct {
	Vote    Vote   `json:"vote"`
	Tally   Tally  `json:"tally"`
	Message string `json:"message"`
}

type VoteListResponse struct {
	Votes []Vote `json:"votes"`
}

type TallyResponse struct {
	ProposalID string `json:"proposal_id"`
	Tally      Tally  `json:"tally"`
}

type FeedbackListResponse struct {
	Feedback []Feedback `json:"feedback"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

type ComplaintListResponse struct {
	Complaints []Complaint `json:"complaints"`
}

type ImplementationListResponse struct {
	Implementations []Implementation `json:"implementations"`
}

type AdminListResponse struct {
	Admins []Admin `json:"admins"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

// Error response

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Issues  []string `json:"issues,omitempty"`
}
