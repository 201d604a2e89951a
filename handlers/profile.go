package handlers

import (
	"consultoria-tcp/contract"
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"consultoria-tcp/protocol"
	"consultoria-tcp/repositories"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	CommandProfile = "PROFILE"

	ActionUpdate      = "UPDATE"
	ActionUploadPhoto = "UPLOAD_PHOTO"
	ActionGetPhoto    = "GET_PHOTO"
)

var _ contract.CommandHandler = (*ProfileHandler)(nil)

type profileRequest struct {
	UserID int64 `json:"userId" validate:"gte=0"`
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type uploadPhotoRequest struct {
	PhotoData string `json:"photoData" validate:"required"`
	FileName  string `json:"fileName" validate:"max=255"`
}

// IdentityRefresher pushes a changed identity to the sessions already open.
type IdentityRefresher interface {
	Refresh(identity domain.Identity) int
}

// ProfileHandler reads and edits user profiles and their photo.
type ProfileHandler struct {
	users    repositories.IUserRepository
	photos   repositories.IPhotoRepository
	sessions IdentityRefresher
	log      *slog.Logger
	now      func() time.Time
}

func NewProfileHandler(
	users repositories.IUserRepository,
	photos repositories.IPhotoRepository,
	sessions IdentityRefresher,
	log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, photos: photos, sessions: sessions, log: log, now: time.Now}
}

func (h *ProfileHandler) CommandType() string {
	return CommandProfile
}

func (h *ProfileHandler) Handle(_ context.Context, message protocol.Message, sessions contract.SessionValidator) (protocol.Result, error) {
	identity, err := authenticate(message, sessions)
	if err != nil {
		return protocol.Result{}, err
	}

	switch action := message.Action(); action {
	case ActionGet:
		return h.get(message, identity)
	case ActionUpdate:
		return h.update(message, identity)
	case ActionUploadPhoto:
		return h.uploadPhoto(message, identity)
	case ActionGetPhoto:
		return h.getPhoto(message, identity)
	default:
		return protocol.Result{}, invalidAction(action)
	}
}

// targetUser is the caller unless userId names somebody else.
func targetUser(req profileRequest, identity domain.Identity) int64 {
	if req.UserID == 0 {
		return identity.UserID
	}
	return req.UserID
}

func (h *ProfileHandler) get(message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	var req profileRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}
	user, err := h.users.FindByID(targetUser(req, identity))
	if err != nil {
		return protocol.Result{}, err
	}

	data := map[string]any{
		"id":        user.ID,
		"name":      user.Name,
		"role":      string(user.Role),
		"createdAt": formatTime(user.CreatedAt),
		"hasPhoto":  false,
	}
	if user.ID == identity.UserID {
		data["email"] = user.Email
	}
	photo, err := h.photos.FindPhoto(user.ID)
	switch {
	case err == nil:
		data["hasPhoto"] = true
		data["photoMimeType"] = photo.MimeType
	case !errors.Is(err, errors.ErrPhotoNotFound):
		return protocol.Result{}, err
	}
	return protocol.Result{Message: "profile retrieved", Data: data}, nil
}

func (h *ProfileHandler) update(message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	var req updateProfileRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return protocol.Result{}, fmt.Errorf("%w: name must not be blank", errors.ErrInvalidPayload)
	}

	user, err := h.users.UpdateName(identity.UserID, name)
	if err != nil {
		return protocol.Result{}, err
	}
	refreshed := h.sessions.Refresh(user.Identity())
	h.log.Info("Profile updated", "user_id", user.ID, "sessions", refreshed)
	return protocol.Result{Message: "profile updated", Data: map[string]any{"user": userData(user.Identity())}}, nil
}

func (h *ProfileHandler) uploadPhoto(message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	var req uploadPhotoRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}
	raw, err := decodePhoto(req.PhotoData)
	if err != nil {
		return protocol.Result{}, err
	}

	detected := mimetype.Detect(raw).String()
	if !domain.IsImageMimeType(detected) {
		h.log.Warn("Photo rejected", "user_id", identity.UserID, "mime_type", detected, "file_name", req.FileName)
		return protocol.Result{}, fmt.Errorf("%w: unsupported photo type %s", errors.ErrInvalidPayload, detected)
	}

	photo := domain.Photo{
		UserID:     identity.UserID,
		MimeType:   detected,
		FileName:   strings.TrimSpace(req.FileName),
		Data:       raw,
		UploadedAt: h.now().UTC(),
	}
	if err := h.photos.SavePhoto(photo); err != nil {
		return protocol.Result{}, err
	}
	h.log.Info("Photo uploaded", "user_id", identity.UserID, "mime_type", detected, "size", len(raw))

	return protocol.Result{
		Message: "photo uploaded",
		Data: map[string]any{
			"userId":     photo.UserID,
			"mimeType":   photo.MimeType,
			"fileName":   photo.FileName,
			"size":       len(raw),
			"uploadedAt": formatTime(photo.UploadedAt),
		},
	}, nil
}

func (h *ProfileHandler) getPhoto(message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	var req profileRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}
	photo, err := h.photos.FindPhoto(targetUser(req, identity))
	if err != nil {
		return protocol.Result{}, err
	}
	return protocol.Result{
		Message: "photo retrieved",
		Data: map[string]any{
			"userId":     photo.UserID,
			"mimeType":   photo.MimeType,
			"fileName":   photo.FileName,
			"photoData":  base64.StdEncoding.EncodeToString(photo.Data),
			"uploadedAt": formatTime(photo.UploadedAt),
		},
	}, nil
}

// decodePhoto accepts plain base64 or a data URL and enforces the size bound
// before and after decoding.
func decodePhoto(encoded string) ([]byte, error) {
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}
	encoded = strings.TrimSpace(encoded)
	if base64.StdEncoding.DecodedLen(len(encoded)) > domain.MaxPhotoBytes+2 {
		return nil, fmt.Errorf("%w: photo exceeds %d bytes", errors.ErrInvalidPayload, domain.MaxPhotoBytes)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: photoData is not base64", errors.ErrInvalidPayload)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: photo is empty", errors.ErrInvalidPayload)
	}
	if len(raw) > domain.MaxPhotoBytes {
		return nil, fmt.Errorf("%w: photo exceeds %d bytes", errors.ErrInvalidPayload, domain.MaxPhotoBytes)
	}
	return raw, nil
}
