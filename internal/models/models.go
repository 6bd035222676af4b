package models

import (
	"time"
)

type Location struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// PostKey is the composite identity of a post.
type PostKey struct {
	Email  string
	PostID int64
}

type Post struct {
	Email               string      `json:"email"`
	PostID              int64       `json:"postId"`
	BenefitType         BenefitType `json:"benefitType"`
	SchemeName          string      `json:"schemeName"`
	IssueName           string      `json:"issueName"`
	Description         string      `json:"description"`
	ActivityDescription string      `json:"activityDescription"`
	Comment             string      `json:"comment"`
	Image               *string     `json:"image,omitempty"`
	Location            *Location   `json:"location,omitempty"`
	Status              Status      `json:"status"`
	Urgency             Urgency     `json:"urgency"`
	CreateDate          time.Time   `json:"createDate"`
}

func (p *Post) Key() PostKey {
	return PostKey{Email: p.Email, PostID: p.PostID}
}

// Title is the issue name, or the scheme name for posts that only carry one.
func (p *Post) Title() string {
	if p.IssueName != "" {
		return p.IssueName
	}
	return p.SchemeName
}

// PostDraft is the caller supplied part of a new post. Enum fields are raw
// strings and get parsed when the draft is turned into a Post.
type PostDraft struct {
	Email               string
	BenefitType         string
	SchemeName          string
	IssueName           string
	Description         string
	ActivityDescription string
	Comment             string
	Image               *string
	Location            *Location
	Status              string
	Urgency             string
}

// PostPatch carries the editable fields of a post; nil means "leave as is".
type PostPatch struct {
	Description         *string
	IssueName           *string
	SchemeName          *string
	ActivityDescription *string
	Comment             *string
	Urgency             *string
	Status              *string
	Location            *Location
	Image               *string
}

// IssueReport is the multipart "report an issue" form after decoding.
type IssueReport struct {
	Title       string
	Description string
	Category    string
	Urgency     string
	Location    *Location
	UserEmail   string
	ImageData   []byte
}

type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	NickName     string    `json:"nickName"`
	PhoneNumber  string    `json:"phoneNumber"`
	Country      string    `json:"country"`
	Gender       string    `json:"gender"`
	Address      string    `json:"address"`
	CreateDate   time.Time `json:"createDate"`
}

type AdminUser struct {
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	PasswordHash   string     `json:"-"`
	AdminLevel     int        `json:"adminLevel"`
	AdminCode      string     `json:"adminCode"`
	IssuesResolved int        `json:"issuesResolved"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
}

type Review struct {
	ReviewID   string    `json:"reviewId"`
	Email      string    `json:"email"`
	Comment    string    `json:"comment"`
	CreateDate time.Time `json:"createDate"`
}

// ImageObject records where the raw bytes of a post image were archived.
type ImageObject struct {
	PostID      int64     `json:"postId"`
	Email       string    `json:"email"`
	ObjectName  string    `json:"objectName"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}
