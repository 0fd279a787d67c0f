package handlerwrapper

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type JSONLogHandler struct {
}

func NewJSONLogHandler() *JSONLogHandler {
	return &JSONLogHandler{}
}

func (h *JSONLogHandler) Handle(ctx context.Context, ri *HTTPRequestInfo) {
	jsonBytes, err := json.Marshal(ri)
	if err != nil {
		log.Ctx(ctx).Info().Err(err).Msgf("failed to marshal request info %+v", ri)
		return
	}
	if ri.StatusCode >= http.StatusBadRequest {
		log.Ctx(ctx).Error().RawJSON("Request", jsonBytes).Send()
	} else {
		log.Ctx(ctx).Trace().RawJSON("Request", jsonBytes).Send()
	}
}
