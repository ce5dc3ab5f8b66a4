package api

import (
	"net/http"

	"github.com/nerrad567/homedash-core/internal/automation"
)

// sceneList is the response of the scene listings.
type sceneList struct {
	Scenes []automation.Entry `json:"scenes"`
	Count  int                `json:"count"`
}

// sceneCreated is the response of a user scene creation. Persisted is false
// when the catalog could not be saved; the scene is usable regardless.
type sceneCreated struct {
	Scene     automation.Scene `json:"scene"`
	Persisted bool             `json:"persisted"`
}

// handleListGlobalScenes returns the predefined then the user global scenes.
func (s *Server) handleListGlobalScenes(w http.ResponseWriter, _ *http.Request) {
	scenes := s.engine.GlobalScenes()
	writeJSON(w, http.StatusOK, sceneList{Scenes: scenes, Count: len(scenes)})
}

// handleListRoomScenes returns the predefined then the user scenes of a room.
func (s *Server) handleListRoomScenes(w http.ResponseWriter, r *http.Request) {
	roomID := pathParam(r, "roomID")
	if _, err := s.registry.Room(roomID); err != nil {
		writeDomainError(w, err)
		return
	}
	scenes := s.engine.RoomScenes(roomID)
	writeJSON(w, http.StatusOK, sceneList{Scenes: scenes, Count: len(scenes)})
}

// handleCreateGlobalScene creates a user global scene.
func (s *Server) handleCreateGlobalScene(w http.ResponseWriter, r *http.Request) {
	s.createScene(w, r, "")
}

// handleCreateRoomScene creates a user scene for the room.
func (s *Server) handleCreateRoomScene(w http.ResponseWriter, r *http.Request) {
	roomID := pathParam(r, "roomID")
	if roomID == "" {
		writeBadRequest(w, "invalid room ID")
		return
	}
	s.createScene(w, r, roomID)
}

func (s *Server) createScene(w http.ResponseWriter, r *http.Request, roomID string) {
	var scene automation.Scene
	if !decodeBody(w, r, &scene) {
		return
	}

	created, res, err := s.engine.AddUserScene(r.Context(), scene, roomID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	persisted := false
	select {
	case <-res.Done():
		persisted = res.OK()
	case <-r.Context().Done():
	}
	writeJSON(w, http.StatusCreated, sceneCreated{Scene: created, Persisted: persisted})
}

// handleDeleteGlobalScene deletes a user global scene.
func (s *Server) handleDeleteGlobalScene(w http.ResponseWriter, r *http.Request) {
	s.deleteScene(w, r, "")
}

// handleDeleteRoomScene deletes a user scene of the room.
func (s *Server) handleDeleteRoomScene(w http.ResponseWriter, r *http.Request) {
	s.deleteScene(w, r, pathParam(r, "roomID"))
}

// deleteScene removes a user scene. Unknown ids and predefined scenes
// answer 404 and change nothing.
func (s *Server) deleteScene(w http.ResponseWriter, r *http.Request, roomID string) {
	id := pathParam(r, "sceneID")
	if id == "" {
		writeBadRequest(w, "invalid scene ID")
		return
	}

	removed, res := s.engine.DeleteUserScene(r.Context(), id, roomID)
	if !removed {
		writeNotFound(w, "user scene not found")
		return
	}

	select {
	case <-res.Done():
	case <-r.Context().Done():
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExecuteGlobalScene applies a global scene.
func (s *Server) handleExecuteGlobalScene(w http.ResponseWriter, r *http.Request) {
	s.executeScene(w, r, "")
}

// handleExecuteRoomScene applies a room scene with the room as context.
func (s *Server) handleExecuteRoomScene(w http.ResponseWriter, r *http.Request) {
	s.executeScene(w, r, pathParam(r, "roomID"))
}

func (s *Server) executeScene(w http.ResponseWriter, r *http.Request, roomID string) {
	id := pathParam(r, "sceneID")
	if id == "" {
		writeBadRequest(w, "invalid scene ID")
		return
	}

	exec, err := s.engine.ExecuteByID(id, roomID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exec)
}
