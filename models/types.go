package models

import "time"

// ProposalStatus is the lifecycle state of a proposal.
type ProposalStatus string

// Proposal status constants
const (
	StatusSubmitted      ProposalStatus = "submitted"
	StatusAdminApproved  ProposalStatus = "admin_approved"
	StatusAdminRejected  ProposalStatus = "admin_rejected"
	StatusUnderReview    ProposalStatus = "under_review"
	StatusReviewComplete ProposalStatus = "review_complete"
)

// Label returns the status as shown in the back-office UI.
func (s ProposalStatus) Label() string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	case StatusAdminApproved:
		return "Lolos Admin"
	case StatusAdminRejected:
		return "Ditolak Admin"
	case StatusUnderReview:
		return "Dalam Review"
	case StatusReviewComplete:
		return "Selesai Review"
	}
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s ProposalStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusAdminApproved, StatusAdminRejected, StatusUnderReview, StatusReviewComplete:
		return true
	}
	return false
}

// Recommendation is the reviewer's final verdict on a proposal.
type Recommendation string

// Recommendation constants
const (
	RecommendAccepted      Recommendation = "accepted"
	RecommendMinorRevision Recommendation = "minor_revision"
	RecommendMajorRevision Recommendation = "major_revision"
	RecommendRejected      Recommendation = "rejected"
)

// Session roles issued by the session provider
const (
	RoleAdmin      = "admin"
	RoleReviewer   = "reviewer"
	RoleResearcher = "researcher"
)

// Domain types

type Proposal struct {
	ID          string         `json:"id"`
	Title       string         `json:"judul"`
	Ketua       string         `json:"ketua"`
	Skema       string         `json:"skema"`
	Fakultas    string         `json:"fakultas"`
	Status      ProposalStatus `json:"status"`
	Reviewer1ID *string        `json:"reviewer1_id,omitempty"`
	Reviewer2ID *string        `json:"reviewer2_id,omitempty"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
}

// ReviewerIDs returns the assigned reviewer ids in slot order, skipping empty slots.
func (p Proposal) ReviewerIDs() []string {
	ids := make([]string, 0, 2)
	if p.Reviewer1ID != nil && *p.Reviewer1ID != "" {
		ids = append(ids, *p.Reviewer1ID)
	}
	if p.Reviewer2ID != nil && *p.Reviewer2ID != "" {
		ids = append(ids, *p.Reviewer2ID)
	}
	return ids
}

type Reviewer struct {
	ID        string `json:"id"`
	Name      string `json:"nama"`
	Expertise string `json:"keahlian"`
	Quota     int    `json:"kuota"`
}

type RubricCriterion struct {
	ID     string  `json:"id"`
	Label  string  `json:"kriteria"`
	Weight float64 `json:"bobot"` // percentage, 0-100
	Score  float64 `json:"skor"`  // 0-100
}

// ReviewResult is the immutable record of a submitted review.
type ReviewResult struct {
	ProposalID     string            `json:"proposal_id"`
	ReviewerID     string            `json:"reviewer_id"`
	Criteria       []RubricCriterion `json:"kriteria"`
	Total          float64           `json:"total"`
	Recommendation Recommendation    `json:"rekomendasi"`
	Comments       string            `json:"komentar"`
	SubmittedAt    time.Time         `json:"submitted_at"`
}

// Master data

type Skema struct {
	ID           int64   `json:"id,omitempty"`
	Nama         string  `json:"nama" validate:"required"`
	Klaster      string  `json:"klaster" validate:"required,oneof=Penelitian Pengabdian"`
	DanaMaksimal float64 `json:"dana_maksimal" validate:"gte=0"`
	DurasiTahun  int     `json:"durasi_tahun" validate:"required,min=1,max=5"`
	Aktif        bool    `json:"aktif"`
}

type BidangIlmu struct {
	ID     int64  `json:"id,omitempty"`
	Kode   string `json:"kode" validate:"required"`
	Nama   string `json:"nama" validate:"required"`
	Rumpun string `json:"rumpun" validate:"required,oneof=Saintek Soshum Kesehatan Agro Seni"`
}

type Fakultas struct {
	ID   int64  `json:"id,omitempty"`
	Kode string `json:"kode" validate:"required"`
	Nama string `json:"nama" validate:"required"`
}

type ProgramStudi struct {
	ID         int64  `json:"id,omitempty"`
	Kode       string `json:"kode" validate:"required"`
	Nama       string `json:"nama" validate:"required"`
	Jenjang    string `json:"jenjang" validate:"required,oneof=D3 S1 S2 S3"`
	FakultasID int64  `json:"fakultas_id" validate:"required,gt=0"`
}

type TemplateDokumen struct {
	ID         int64  `json:"id,omitempty"`
	Nama       string `json:"nama" validate:"required"`
	Jenis      string `json:"jenis" validate:"required"`
	Keterangan string `json:"keterangan"`
	FileURL    string `json:"file_url,omitempty"`

	// Upload is set only on create/update and travels as multipart form data.
	Upload *FileUpload `json:"-"`
}

// Attach sets the file sent with the next create or update.
func (t *TemplateDokumen) Attach(f *FileUpload) {
	t.Upload = f
}

// FileUpload is a file attached to a multipart mutation.
type FileUpload struct {
	FieldName string
	FileName  string
	Content   []byte
}

type Pengelola struct {
	ID      int64  `json:"id,omitempty"`
	Nama    string `json:"nama" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Telepon string `json:"telepon"`
	Jabatan string `json:"jabatan"`
}

type Office struct {
	ID      int64  `json:"id,omitempty"`
	Nama    string `json:"nama" validate:"required"`
	Alamat  string `json:"alamat" validate:"required"`
	Kota    string `json:"kota" validate:"required"`
	Telepon string `json:"telepon"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// Profiles

type ResearcherProfile struct {
	NIDN              string   `json:"nidn"`
	Nama              string   `json:"nama"`
	Fakultas          string   `json:"fakultas"`
	ProgramStudi      string   `json:"program_studi"`
	JabatanFungsional string   `json:"jabatan_fungsional"`
	HIndex            int      `json:"h_index"`
	BidangKeahlian    []string `json:"bidang_keahlian"`
	Email             string   `json:"email"`
	Telepon           string   `json:"telepon"`
}

// Clone returns a deep copy.
func (p ResearcherProfile) Clone() ResearcherProfile {
	p.BidangKeahlian = append([]string(nil), p.BidangKeahlian...)
	return p
}

type ReviewerProfile struct {
	Nama      string   `json:"nama"`
	Institusi string   `json:"institusi"`
	Expertise []string `json:"keahlian"`
	Quota     int      `json:"kuota"`
	Email     string   `json:"email"`
}

// Clone returns a deep copy.
func (p ReviewerProfile) Clone() ReviewerProfile {
	p.Expertise = append([]string(nil), p.Expertise...)
	return p
}

type PersonalInfo struct {
	Nama         string `json:"nama"`
	Email        string `json:"email"`
	Telepon      string `json:"telepon"`
	Alamat       string `json:"alamat"`
	TanggalLahir string `json:"tanggal_lahir"`
}

// Clone returns a copy.
func (p PersonalInfo) Clone() PersonalInfo {
	return p
}

// Audit

type AuditEntry struct {
	ID           string    `json:"id"`
	Action       string    `json:"action"`
	Subject      string    `json:"subject"`
	StatusBefore string    `json:"status_before,omitempty"`
	StatusAfter  string    `json:"status_after,omitempty"`
	Actor        string    `json:"actor"`
	IPHash       string    `json:"-"` // Never expose in JSON
	Detail       string    `json:"detail,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Envelopes

// Page is the list envelope returned by the external API.
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total,omitempty"`
}

// Request types

type RejectRequest struct {
	Reason string `json:"reason"`
}

type AssignReviewersRequest struct {
	Reviewer1ID *string `json:"reviewer1_id"`
	Reviewer2ID *string `json:"reviewer2_id"`
}

type StatusChangeRequest struct {
	Status ProposalStatus `json:"status"`
	Reason string         `json:"reason,omitempty"`
}

// criterion_id -> score (0-100)
type ScoreRequest struct {
	Scores map[string]float64 `json:"scores"`
}

type SubmitReviewRequest struct {
	Scores         map[string]float64 `json:"scores"`
	Recommendation Recommendation     `json:"recommendation"`
	Comments       string             `json:"comments"`
}

type RegisterRequest struct {
	Nama                 string `json:"nama" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	NIDN                 string `json:"nidn"`
}

// Response types

type PlottingDraft struct {
	Proposal    Proposal   `json:"proposal"`
	Reviewer1ID string     `json:"reviewer1_id"`
	Reviewer2ID string     `json:"reviewer2_id"`
	Candidates  []Reviewer `json:"candidates"`
}

type ReviewView struct {
	ProposalID     string            `json:"proposal_id"`
	Status         ProposalStatus    `json:"status"`
	ReadOnly       bool              `json:"read_only"`
	Criteria       []RubricCriterion `json:"criteria"`
	Total          float64           `json:"total"`
	Grade          string            `json:"grade"`
	Recommendation Recommendation    `json:"recommendation,omitempty"`
	Comments       string            `json:"comments,omitempty"`
}

type ConfirmationResponse struct {
	Token     string    `json:"token"`
	Action    string    `json:"action"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// Error response

type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
