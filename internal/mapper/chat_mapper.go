package mapper

import (
	"encoding/json"
	"time"

	"snochat-be/internal/entity"
	"snochat-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	e := &entity.ChatMessage{
		Id:                msg.Id,
		ChatSessionId:     msg.ChatSessionId,
		SenderType:        msg.SenderType,
		Content:           msg.Content,
		AttachmentSummary: msg.AttachmentSummary,
		CreatedAt:         msg.CreatedAt,
	}

	if len(msg.Attachment) > 0 {
		var att entity.Attachment
		if err := json.Unmarshal(msg.Attachment, &att); err == nil {
			e.Attachment = &att
		}
	}

	return e
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	out := &model.ChatMessage{
		Id:                msg.Id,
		ChatSessionId:     msg.ChatSessionId,
		SenderType:        msg.SenderType,
		Content:           msg.Content,
		AttachmentSummary: msg.AttachmentSummary,
		CreatedAt:         msg.CreatedAt,
	}

	if msg.Attachment != nil {
		if raw, err := json.Marshal(msg.Attachment); err == nil {
			out.Attachment = datatypes.JSON(raw)
		}
	}

	return out
}
