package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/homedash-core/internal/automation"
	"github.com/nerrad567/homedash-core/internal/device"
)

// maxPathParamLen limits path parameter length.
const maxPathParamLen = 100

// pathParam returns the decoded URL parameter, or "" when it is missing or
// too long.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if unescaped, err := url.PathUnescape(v); err == nil {
		v = unescaped
	}
	if len(v) > maxPathParamLen {
		return ""
	}
	return v
}

// deviceParams returns the room id and device name of a device route.
func deviceParams(w http.ResponseWriter, r *http.Request) (roomID, name string, ok bool) {
	roomID, name = pathParam(r, "roomID"), pathParam(r, "name")
	if roomID == "" || name == "" {
		writeBadRequest(w, "invalid room or device")
		return "", "", false
	}
	return roomID, name, true
}

// decodeBody decodes the JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// deviceResponse writes the flat wire form of d.
func deviceResponse(w http.ResponseWriter, d device.Device) {
	data, err := device.MarshalDevice(d)
	if err != nil {
		writeInternalError(w, "failed to encode device")
		return
	}
	writeJSON(w, http.StatusOK, json.RawMessage(data))
}

// handleListRooms returns every room with its controls, in display order.
func (s *Server) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	rooms := s.registry.Rooms()
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms, "count": len(rooms)})
}

// handleListSummaries returns the room overview tiles.
func (s *Server) handleListSummaries(w http.ResponseWriter, _ *http.Request) {
	summaries := s.registry.Summaries()
	writeJSON(w, http.StatusOK, map[string]any{"rooms": summaries, "count": len(summaries)})
}

// handleGetRoom returns a single room.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.registry.Room(pathParam(r, "roomID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// handleGetSummary returns the overview tile of a single room.
func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.registry.Summary(pathParam(r, "roomID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// heatingRequest sets the target either directly or from a dial angle.
type heatingRequest struct {
	Target *float64 `json:"target"`
	Angle  *float64 `json:"angle"`
}

// handleSetHeating sets the room's target temperature.
func (s *Server) handleSetHeating(w http.ResponseWriter, r *http.Request) {
	roomID := pathParam(r, "roomID")

	var req heatingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var target float64
	switch {
	case req.Target != nil:
		target = *req.Target
	case req.Angle != nil:
		t, ok := device.TargetFromDialAngle(*req.Angle)
		if !ok {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, "angle must be between 0 and 270")
			return
		}
		target = t
	default:
		writeBadRequest(w, "target or angle is required")
		return
	}

	room, err := s.registry.SetHeatingTarget(roomID, target)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	for _, d := range room.Controls {
		if d.Type() == device.TypeHeat {
			s.bridge.Announce(roomID, d)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"roomId": roomID, "targetTemp": room.TargetTemp})
}

// handleGetDevice returns a single device.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	roomID, name, ok := deviceParams(w, r)
	if !ok {
		return
	}
	d, err := s.registry.Device(roomID, name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	deviceResponse(w, d)
}

// handleToggle flips a light, applying smart-on to dimmable lights.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	roomID, name, ok := deviceParams(w, r)
	if !ok {
		return
	}
	d, err := s.registry.Toggle(roomID, name)
	s.changed(w, roomID, d, err)
}

// handleSetDimmer sets the brightness of a dimmable light.
func (s *Server) handleSetDimmer(w http.ResponseWriter, r *http.Request) {
	roomID, name, ok := deviceParams(w, r)
	if !ok {
		return
	}
	var req struct {
		Level *int `json:"level"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Level == nil {
		writeBadRequest(w, "level is required")
		return
	}
	d, err := s.registry.SetDimmer(roomID, name, *req.Level)
	s.changed(w, roomID, d, err)
}

// handleGetHue returns the hue of an RGB light's colour.
func (s *Server) handleGetHue(w http.ResponseWriter, r *http.Request) {
	roomID, name, ok := deviceParams(w, r)
	if !ok {
		return
	}
	hue, err := s.registry.Hue(roomID, name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"hue": hue})
}

// handleSetHue sets an RGB light to the colour of a hue.
func (s *Server) handleSetHue(w http.ResponseWriter, r *http.Request) {
	roomID, name, ok := deviceParams(w, r)
	if !ok {
		return
	}
	var req struct {
		Hue *float64 `json:"hue"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Hue == nil {
		writeBadRequest(w, "hue is required")
		return
	}
	d, err := s.registry.SetColorFromHue(roomID, name, *req.Hue)
	s.changed(w, roomID, d, err)
}

// handleStartDrive starts moving a blind. It answers once the drive is
// running; steps are broadcast as device.updated events.
func (s *Server) handleStartDrive(w http.ResponseWriter, r *http.Request) {
	roomID, name, ok := deviceParams(w, r)
	if !ok {
		return
	}
	var req struct {
		Direction string `json:"direction"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	dir, err := device.ParseDirection(req.Direction)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if _, err := s.driver.Start(roomID, name, dir); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"roomId": roomID, "name": name, "direction": dir})
}

// handleStopDrive stops a moving blind and returns where it stopped.
func (s *Server) handleStopDrive(w http.ResponseWriter, r *http.Request) {
	roomID, name, ok := deviceParams(w, r)
	if !ok {
		return
	}
	s.driver.Stop(roomID, name)

	d, err := s.registry.Device(roomID, name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.bridge.Announce(roomID, d)
	deviceResponse(w, d)
}

// handlePushUpdate applies a device change pushed by the home controller.
func (s *Server) handlePushUpdate(w http.ResponseWriter, r *http.Request) {
	var u automation.Update
	if !decodeBody(w, r, &u) {
		return
	}
	d, err := s.bridge.Apply(u)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	deviceResponse(w, d)
}

// changed finishes a device mutation: it announces the new state and writes
// it, or writes the error.
func (s *Server) changed(w http.ResponseWriter, roomID string, d device.Device, err error) {
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.bridge.Announce(roomID, d)
	deviceResponse(w, d)
}
