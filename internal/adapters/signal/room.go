package signal

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterAlias("username", fmt.Sprintf("required,max=%d", domain.MaxUsernameLen))
	v.RegisterAlias("roomname", fmt.Sprintf("required,max=%d", domain.MaxRoomNameLen))
	v.RegisterAlias("chattext", fmt.Sprintf("required,max=%d", domain.MaxTextLen))
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type enterRoomPayload struct {
	Name string `json:"name" validate:"username"`
	Room string `json:"room" validate:"roomname"`
}

// The author is taken from the store, so a client-sent name is not decoded.
type messagePayload struct {
	Text string `json:"text" validate:"chattext"`
}

// invalidCode maps a validation failure to "invalid_<field>".
func invalidCode(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "invalid_" + verrs[0].Field()
	}
	return "bad_payload"
}

func (ctl *SignalWSController) handleEnterRoom(sid core.SessionID, conn core.SignalConnection, data json.RawMessage) {
	var p enterRoomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad enterRoom payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Room = strings.TrimSpace(p.Room)
	if err := validate.Struct(p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("rejected enterRoom")
		ctl.sendError(conn, invalidCode(err))
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Msg("enterRoom")
	ctl.Orch.EnterRoom(sid, p.Name, domain.RoomName(p.Room))
}

func (ctl *SignalWSController) handleMessage(sid core.SessionID, conn core.SignalConnection, data json.RawMessage) {
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad message payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	p.Text = strings.TrimSpace(p.Text)
	if err := validate.Struct(p); err != nil {
		ctl.sendError(conn, invalidCode(err))
		return
	}
	ctl.Orch.OnMessage(sid, p.Text)
}

// The activity payload is either {"name": ...} or a bare string; neither is
// trusted, so it is not decoded.
func (ctl *SignalWSController) handleActivity(sid core.SessionID) {
	ctl.Orch.OnActivity(sid)
}
