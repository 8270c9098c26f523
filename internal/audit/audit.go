package audit

import (
	"context"

	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
)

// Audit actions for the chat server.
const (
	ActionLogin       = "chat.login"
	ActionConnect     = "chat.connect"
	ActionAuthFailed  = "chat.auth_failed"
	ActionDisconnect  = "chat.disconnect"
	ActionSendMessage = "chat.send_message"
	ActionMarkRead    = "chat.mark_read"
	ActionAlert       = "chat.alert"
	ActionSubscribe   = "chat.push_subscribe"
	ActionUnsubscribe = "chat.push_unsubscribe"
)

const (
	fieldAction = "action"
	fieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, userID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(fieldAction, action).
		Str(log.FieldUserID, userID).
		Msg(msg)
}

// LogWithDetail emits an audit log with an extra detail field.
func LogWithDetail(ctx context.Context, action, userID, detail, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(fieldAction, action).
		Str(log.FieldUserID, userID).
		Str(fieldDetail, detail).
		Msg(msg)
}
