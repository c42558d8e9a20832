// internal/chat/dto.go

package chat

type SendMessageDTO struct {
	ReceiverID int64  `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

type MessageListResponse struct {
	Total    int        `json:"total"`
	Messages []*Message `json:"messages"`
}

type ConversationListResponse struct {
	Total         int                    `json:"total"`
	Conversations []*ConversationSummary `json:"conversations"`
}
