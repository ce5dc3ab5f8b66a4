package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/nerrad567/homedash-core/internal/automation"
	"github.com/nerrad567/homedash-core/internal/device"
)

func listScenes(t *testing.T, env *testEnv, path string) []automation.Entry {
	t.Helper()
	w := env.do(t, http.MethodGet, path, "")
	expectStatus(t, w, http.StatusOK)
	var resp struct {
		Scenes []automation.Entry `json:"scenes"`
		Count  int                `json:"count"`
	}
	decode(t, w, &resp)
	if resp.Count != len(resp.Scenes) {
		t.Errorf("count = %d, scenes = %d", resp.Count, len(resp.Scenes))
	}
	return resp.Scenes
}

func TestListScenes(t *testing.T) {
	env := testServer(t)

	global := listScenes(t, env, "/api/v1/scenes")
	if len(global) != len(automation.PredefinedGlobalScenes()) {
		t.Errorf("global scenes = %d, want %d", len(global), len(automation.PredefinedGlobalScenes()))
	}
	for _, e := range global {
		if e.User {
			t.Errorf("predefined scene %s flagged as user", e.ID)
		}
	}

	room := listScenes(t, env, "/api/v1/rooms/wohnzimmer/scenes")
	if len(room) != 3 || room[0].ID != "film" {
		t.Errorf("wohnzimmer scenes = %+v", room)
	}

	w := env.do(t, http.MethodGet, "/api/v1/rooms/keller/scenes", "")
	expectStatus(t, w, http.StatusNotFound)
}

func TestCreateAndDeleteGlobalScene(t *testing.T) {
	env := testServer(t)

	body := `{"name":"  Party  ","actions":[{"room":"*","deviceType":"rgb","property":"status","value":1}]}`
	w := env.do(t, http.MethodPost, "/api/v1/scenes", body)
	expectStatus(t, w, http.StatusCreated)

	var created struct {
		Scene     automation.Scene `json:"scene"`
		Persisted bool             `json:"persisted"`
	}
	decode(t, w, &created)
	if !strings.HasPrefix(created.Scene.ID, "user_") {
		t.Errorf("id = %q, want user_ prefix", created.Scene.ID)
	}
	if created.Scene.Name != "Party" || created.Scene.Icon != automation.DefaultIcon {
		t.Errorf("scene = %+v, want trimmed name and default icon", created.Scene)
	}
	if !created.Persisted {
		t.Error("scene not persisted")
	}

	global := listScenes(t, env, "/api/v1/scenes")
	last := global[len(global)-1]
	if last.ID != created.Scene.ID || !last.User {
		t.Errorf("last global scene = %+v, want the user scene", last)
	}

	stored, err := env.store.Load(context.Background(), automation.KeyUserGlobalScenes)
	if err != nil || !strings.Contains(string(stored), created.Scene.ID) {
		t.Errorf("stored catalog = %s (err %v)", stored, err)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/scenes/"+created.Scene.ID, "")
	expectStatus(t, w, http.StatusNoContent)
	if n := len(listScenes(t, env, "/api/v1/scenes")); n != len(automation.PredefinedGlobalScenes()) {
		t.Errorf("global scenes after delete = %d", n)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/scenes/"+created.Scene.ID, "")
	expectStatus(t, w, http.StatusNotFound)
	w = env.do(t, http.MethodDelete, "/api/v1/scenes/alles-aus", "")
	expectStatus(t, w, http.StatusNotFound)
}

func TestCreateScene_Invalid(t *testing.T) {
	env := testServer(t)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"no name", "/api/v1/scenes", `{"name":" ","actions":[{"deviceType":"light","property":"status","value":1}]}`, http.StatusBadRequest},
		{"no actions", "/api/v1/scenes", `{"name":"Leer","actions":[]}`, http.StatusBadRequest},
		{"name too long", "/api/v1/scenes", `{"name":"` + strings.Repeat("x", 31) + `","actions":[{"deviceType":"light","property":"status","value":1}]}`, http.StatusBadRequest},
		{"bad json", "/api/v1/scenes", `{"name":`, http.StatusBadRequest},
		{"unknown room", "/api/v1/rooms/keller/scenes", `{"name":"X","actions":[{"deviceType":"light","property":"status","value":1}]}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, tt.path, tt.body)
			expectStatus(t, w, tt.want)
		})
	}

	if n := len(env.engine.UserGlobalScenes()); n != 0 {
		t.Errorf("user global scenes = %d, want 0", n)
	}
}

func TestRoomSceneLifecycle(t *testing.T) {
	env := testServer(t)

	body := `{"name":"Nacht","icon":"🌙","actions":[{"device":"Spiegel","property":"status","value":1}]}`
	w := env.do(t, http.MethodPost, "/api/v1/rooms/bad/scenes", body)
	expectStatus(t, w, http.StatusCreated)
	var created struct {
		Scene automation.Scene `json:"scene"`
	}
	decode(t, w, &created)

	room := listScenes(t, env, "/api/v1/rooms/bad/scenes")
	if len(room) != 2 || room[1].ID != created.Scene.ID || !room[1].User {
		t.Fatalf("bad scenes = %+v", room)
	}

	w = env.do(t, http.MethodPost, "/api/v1/rooms/bad/scenes/"+created.Scene.ID+"/execute", "")
	expectStatus(t, w, http.StatusOK)
	d, _ := env.registry.Device("bad", "Spiegel")
	if !d.(device.Switchable).IsOn() {
		t.Error("room scene did not switch Spiegel on")
	}

	// Deleting through the global route does not touch room scenes.
	w = env.do(t, http.MethodDelete, "/api/v1/scenes/"+created.Scene.ID, "")
	expectStatus(t, w, http.StatusNotFound)

	w = env.do(t, http.MethodDelete, "/api/v1/rooms/bad/scenes/"+created.Scene.ID, "")
	expectStatus(t, w, http.StatusNoContent)
}

func TestExecuteScene(t *testing.T) {
	env := testServer(t)

	w := env.do(t, http.MethodPost, "/api/v1/scenes/alles-aus/execute", "")
	expectStatus(t, w, http.StatusOK)
	var exec automation.Execution
	decode(t, w, &exec)
	if exec.SceneID != "alles-aus" || exec.SceneName != "Alles Aus" || exec.Writes == 0 {
		t.Errorf("execution = %+v", exec)
	}
	for _, s := range env.registry.Summaries() {
		if s.LightsOn != 0 {
			t.Errorf("%s has %d lights on after alles-aus", s.RoomID, s.LightsOn)
		}
	}

	w = env.do(t, http.MethodPost, "/api/v1/rooms/wohnzimmer/scenes/film/execute", "")
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &exec)
	if exec.RoomID != "wohnzimmer" {
		t.Errorf("room = %q, want wohnzimmer", exec.RoomID)
	}
	d, _ := env.registry.Device("wohnzimmer", "Storen West")
	if d.(*device.Blind).Position != 100 {
		t.Errorf("Storen West position = %v, want 100", d.(*device.Blind).Position)
	}

	w = env.do(t, http.MethodPost, "/api/v1/scenes/gibtsnicht/execute", "")
	expectStatus(t, w, http.StatusNotFound)

	// Room scenes are not reachable from the global catalog.
	w = env.do(t, http.MethodPost, "/api/v1/scenes/film/execute", "")
	expectStatus(t, w, http.StatusNotFound)
}
