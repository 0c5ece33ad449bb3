package httpapi

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/server/auth"
	"github.com/go-chi/chi/v5"
)

const deliveryLink = "link"

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// --- auth ---

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.users.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, sess.Token, s.opts.SessionValidity, s.opts.SecureCookies)
	writeJSON(w, http.StatusCreated, map[string]userDTO{"user": toUser(sess.User)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, sess.Token, s.opts.SessionValidity, s.opts.SecureCookies)
	writeJSON(w, http.StatusOK, map[string]userDTO{"user": toUser(sess.User)})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, s.opts.SecureCookies)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Me(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]userDTO{"user": toUser(user)})
}

// --- groups ---

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]groupDTO{"groups": toGroups(groups)})
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	group, err := s.groups.Create(r.Context(), userIDFrom(r.Context()), req.Name, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]groupDTO{"group": toGroup(group)})
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	details, err := s.groups.Get(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"group":   toGroup(details.Group),
		"members": toMembers(details.Members),
	})
}

// deleteGroup is limited to the group's creator.
func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID", "group")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	userID := userIDFrom(r.Context())
	if _, err := s.guard.RequireCreator(r.Context(), groupID, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.groups.Delete(r.Context(), groupID, userID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Group deleted"})
}

// --- contacts ---

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.contacts.List(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]contactDTO{"contacts": toContacts(contacts)})
}

func (s *Server) createContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	contact, err := s.contacts.Create(r.Context(), chi.URLParam(r, "groupID"), userIDFrom(r.Context()), req.fields())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]contactDTO{"contact": toContact(contact)})
}

// createContactByBody serves clients that send the group id in the body.
func (s *Server) createContactByBody(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	groupID, err := bodyID(req.GroupID, "groupId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	userID := userIDFrom(r.Context())
	if err := s.guard.RequireMember(r.Context(), groupID, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	contact, err := s.contacts.Create(r.Context(), groupID, userID, req.fields())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]contactDTO{"contact": toContact(contact)})
}

func (s *Server) updateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	contact, err := s.contacts.Update(r.Context(), contactFrom(r.Context()).ID, userIDFrom(r.Context()), req.fields())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]contactDTO{"contact": toContact(contact)})
}

func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request) {
	if err := s.contacts.Delete(r.Context(), contactFrom(r.Context()).ID, userIDFrom(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Contact deleted"})
}

// --- import / export ---

func (s *Server) exportContacts(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	groupID, err := bodyID(req.GroupID, "groupId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.guard.RequireMember(r.Context(), groupID, userIDFrom(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Delivery == deliveryLink {
		link, err := s.transfers.ExportLink(r.Context(), groupID, req.Format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, exportLinkResponse{URL: link.URL, ExpiresAt: link.ExpiresAt})
		return
	}

	file, err := s.transfers.Export(r.Context(), groupID, req.Format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Body)
}

func (s *Server) importContacts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, fmt.Errorf("%w: file too large", common.ErrInvalidInput))
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: file and groupId required", common.ErrInvalidInput))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: file and groupId required", common.ErrInvalidInput))
		return
	}
	defer file.Close()

	groupID, err := bodyID(r.FormValue("groupId"), "groupId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	userID := userIDFrom(r.Context())
	if err := s.guard.RequireMember(r.Context(), groupID, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	imported, err := s.transfers.Import(r.Context(), groupID, userID, header.Filename, file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"imported": toContacts(imported),
		"count":    len(imported),
	})
}
