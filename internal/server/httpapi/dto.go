package httpapi

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/server/events"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
)

// userDTO is the public view of an account; the password hash is never
// part of it.
type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUser(u *models.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, Name: u.Name}
}

type groupDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toGroup(g *models.Group) groupDTO {
	return groupDTO{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toGroups(gs []*models.Group) []groupDTO {
	out := make([]groupDTO, 0, len(gs))
	for _, g := range gs {
		out = append(out, toGroup(g))
	}
	return out
}

type memberDTO struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
}

func toMembers(ms []*models.GroupMember) []memberDTO {
	out := make([]memberDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, memberDTO{
			ID:       m.ID,
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
			Name:     m.UserName,
			Email:    m.UserEmail,
		})
	}
	return out
}

type contactDTO struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Name        string    `json:"name"`
	PhoneNumber *string   `json:"phone_number"`
	Email       *string   `json:"email"`
	Notes       *string   `json:"notes"`
	AddedBy     *string   `json:"added_by"`
	AddedByName *string   `json:"added_by_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toContact(c *models.Contact) contactDTO {
	return contactDTO{
		ID:          c.ID,
		GroupID:     c.GroupID,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
		Notes:       c.Notes,
		AddedBy:     c.AddedBy,
		AddedByName: c.AddedByName,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toContacts(cs []*models.Contact) []contactDTO {
	out := make([]contactDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, toContact(c))
	}
	return out
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type groupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type contactRequest struct {
	GroupID     string `json:"groupId"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`
}

func (c contactRequest) fields() models.ContactFields {
	return models.ContactFields{Name: c.Name, PhoneNumber: c.PhoneNumber, Email: c.Email, Notes: c.Notes}
}

type exportRequest struct {
	GroupID  string `json:"groupId"`
	Format   string `json:"format"`
	Delivery string `json:"delivery"`
}

type exportLinkResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type eventDTO struct {
	Type    string          `json:"type"`
	GroupID string          `json:"group_id"`
	ActorID string          `json:"actor_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

func toEvent(e events.Event) eventDTO {
	return eventDTO{Type: string(e.Type), GroupID: e.GroupID, ActorID: e.ActorID, Payload: e.Payload, At: e.At}
}
