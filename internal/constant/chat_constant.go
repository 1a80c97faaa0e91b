package constant

import "time"

const (
	// Sender types stored on chat messages.
	ChatSenderUser      = "user"
	ChatSenderAssistant = "assistant"

	// Provider-side roles (Gemini wire format uses "model" for the assistant).
	ProviderRoleUser  = "user"
	ProviderRoleModel = "model"

	// Service names used by the credit ledger. One balance row per user per service.
	ServiceChat      = "sno"
	ServiceEmbedding = "sno_emb"
	ServicePanorama  = "pano"
	ServiceEye2D     = "eye_2d"

	// Wire sentinel accepted by the send-message endpoint in place of a session id.
	AutoSessionSentinel = "auto"

	// Session titles derived for auto-created sessions.
	AutoTitlePrefixLen   = 50
	AutoTitleEllipsis    = "..."
	AutoTitleImageOnly   = "Conversation with image"
	AutoTitleDefault     = "New chat"
	StoredImagePlaceholder = "[attached image]"

	// Annotation folded into conversation turns that carry an image summary.
	// The same format is used for stored history and the new turn so the model
	// sees a self-consistent transcript.
	AttachmentAnnotationFormat         = "[attached image - extracted content: %s]"
	AttachmentAnnotationWithTextFormat = "[attached image - extracted content: %s]\n\nUser message: %s"
)

const (
	// CreditCostPerExchange is deducted once per successful exchange.
	CreditCostPerExchange = 1

	// CreditCostPerImageAnalysis is deducted once per analyzed upload.
	CreditCostPerImageAnalysis = 1

	// AI call retry policy for transient overload.
	AiMaxRetries    = 3
	AiRetryBaseWait = 2 * time.Second
)

const (
	// Upload constraints for chat attachments.
	MaxUploadBytes = 10 * 1024 * 1024
)

// AllowedUploadMimeTypes lists the accepted attachment content types.
var AllowedUploadMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ChatSystemInstruction is the fixed preamble sent with every conversation.
const ChatSystemInstruction = `You are the SnoChat assistant, a precise and friendly helper on the SnoChat platform.
Match the user's register: casual when they are casual, formal when they are formal.
Always answer with the full conversation history in mind.
Keep answers focused; give complete explanations only when asked, capped at roughly 800 words.
When solving math, always use proper notation (LaTeX style, e.g. $x^2 + y^2 = r^2$) so the frontend can render it.
If an answer would not fit, stop at a sentence boundary and tell the user you will continue in the next message.
When the user sends an image, its content arrives as extracted text inside the marker
[attached image - extracted content: ...]. That text may contain formulas, code, or a scene
description. Answer based on it and refer to the image content in your reply. Only user
messages carry this marker; you never produce images yourself.
You may separate a long reply into chat-like chunks with --- delimiters, and you may use
small tables for clarity, but keep table cells short.`

// ImageAnalysisPrompt asks the vision model for a text equivalent of an upload.
const ImageAnalysisPrompt = `Analyze the attached image and produce its text equivalent.

Rules:
1. If the image contains a math formula, written text, or program code:
   - extract the textual content exactly and completely
   - write math in LaTeX (e.g. $x^2 + y^2 = r^2$ or $$\frac{a}{b}$$)
   - keep code formatting and syntax intact
   - output only the content itself, no commentary
2. If the image shows a scene, object, person, or landscape:
   - give a clear, complete, accurate description
   - mention the important details in plain language

Output only the final extracted text or description, with no explanation of what you did.`
