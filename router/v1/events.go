package v1

import (
	"net/http"

	vd "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
	"github.com/leandro-lugaresi/hub"

	"github.com/traPtitech/identfavicon/event"
	"github.com/traPtitech/identfavicon/service/favicon"
)

const (
	eventTypeNavigation = "navigation"
	eventTypeMutation   = "mutation"
)

var eventTopics = map[string]string{
	eventTypeNavigation: event.PageNavigated,
	eventTypeMutation:   event.HeadMutated,
}

// PostEventRequest POST /events リクエストボディ
type PostEventRequest struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func (r PostEventRequest) Validate() error {
	return vd.ValidateStruct(&r,
		vd.Field(&r.Type, vd.Required, vd.In(eventTypeNavigation, eventTypeMutation)),
		vd.Field(&r.URL, vd.Required, vd.By(func(interface{}) error {
			_, err := favicon.ParseURL(r.URL)
			return err
		})),
	)
}

// PostEvent POST /events
func (h *Handlers) PostEvent(c echo.Context) error {
	var req PostEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	h.Hub.Publish(hub.Message{
		Name: eventTopics[req.Type],
		Fields: hub.Fields{
			"url": req.URL,
		},
	})
	return c.NoContent(http.StatusAccepted)
}
