package docker

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/docker/docker/client"
	"github.com/stretchr/testify/require"
)

const apiPrefix = "/v1.41"

// fakeDaemon is a minimal in-memory Docker API used to observe adapter calls.
type fakeDaemon struct {
	t      *testing.T
	server *httptest.Server

	mu         sync.Mutex
	calls      []string
	containers []map[string]any
	volumes    map[string]map[string]string // name -> labels
	networks   map[string]bool
	createBody map[string]json.RawMessage
	failures   map[string]fakeFailure // "METHOD /path" -> forced failure
}

type fakeFailure struct {
	status  int
	message string
}

func newFakeDaemon(t *testing.T) *fakeDaemon {
	t.Helper()

	d := &fakeDaemon{
		t:        t,
		volumes:  make(map[string]map[string]string),
		networks: make(map[string]bool),
		failures: make(map[string]fakeFailure),
	}
	d.server = httptest.NewServer(http.HandlerFunc(d.handle))
	t.Cleanup(d.server.Close)
	return d
}

func (d *fakeDaemon) client() *client.Client {
	d.t.Helper()

	host := strings.TrimPrefix(d.server.URL, "http://")
	cli, err := client.NewClientWithOpts(client.WithHost("tcp://"+host), client.WithVersion("1.41"), client.WithHTTPClient(d.server.Client()))
	require.NoError(d.t, err)
	return cli
}

func (d *fakeDaemon) runtime(cfg Config) *Runtime {
	return NewRuntimeWithClient(d.client(), cfg)
}

func (d *fakeDaemon) fail(call string, status int, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[call] = fakeFailure{status: status, message: message}
}

func (d *fakeDaemon) addVolume(name string, labels map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volumes[name] = labels
}

func (d *fakeDaemon) addContainer(id, name, image, state string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.containers = append(d.containers, map[string]any{
		"Id":     id,
		"Names":  []string{"/" + name},
		"Image":  image,
		"State":  state,
		"Status": state,
	})
}

// recorded returns the calls that mutate engine state, plus reads when all is set.
func (d *fakeDaemon) recorded(all bool) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []string
	for _, call := range d.calls {
		if all || !strings.HasPrefix(call, http.MethodGet) {
			out = append(out, call)
		}
	}
	return out
}

func (d *fakeDaemon) resetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

func (d *fakeDaemon) handle(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, apiPrefix)
	call := r.Method + " " + path
	d.calls = append(d.calls, call)

	if failure, ok := d.failures[call]; ok {
		writeJSON(w, failure.status, map[string]string{"message": failure.message})
		return
	}

	switch {
	case r.Method == http.MethodGet && path == "/containers/json":
		writeJSON(w, http.StatusOK, d.containers)

	case r.Method == http.MethodPost && path == "/containers/create":
		body, _ := io.ReadAll(r.Body)
		d.createBody = make(map[string]json.RawMessage)
		_ = json.Unmarshal(body, &d.createBody)
		writeJSON(w, http.StatusCreated, map[string]any{"Id": "new-" + r.URL.Query().Get("name"), "Warnings": []string{}})

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/start"),
		r.Method == http.MethodPost && strings.HasSuffix(path, "/stop"):
		name := strings.Split(strings.TrimPrefix(path, "/containers/"), "/")[0]
		if !d.hasContainer(name) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "No such container: " + name})
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/containers/"):
		name := strings.TrimPrefix(path, "/containers/")
		if !d.hasContainer(name) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "No such container: " + name})
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodPost && path == "/images/create":
		writeJSON(w, http.StatusOK, map[string]string{"status": "Downloaded newer image"})

	case r.Method == http.MethodGet && path == "/volumes":
		writeJSON(w, http.StatusOK, map[string]any{"Volumes": d.filterVolumes(r.URL.Query().Get("filters"))})

	case r.Method == http.MethodPost && path == "/volumes/create":
		var req struct {
			Name   string
			Labels map[string]string
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		d.volumes[req.Name] = req.Labels
		writeJSON(w, http.StatusCreated, map[string]any{"Name": req.Name, "Labels": req.Labels})

	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/volumes/"):
		name := strings.TrimPrefix(path, "/volumes/")
		delete(d.volumes, name)
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/networks/"):
		name := strings.TrimPrefix(path, "/networks/")
		if !d.networks[name] {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "network " + name + " not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"Name": name, "Id": "net-" + name})

	case r.Method == http.MethodPost && path == "/networks/create":
		var req map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&req)
		var name string
		_ = json.Unmarshal(req["Name"], &name)
		d.networks[name] = true
		d.createBody = req
		writeJSON(w, http.StatusCreated, map[string]string{"Id": "net-" + name})

	default:
		writeJSON(w, http.StatusNotImplemented, map[string]string{"message": "unexpected call " + call})
	}
}

func (d *fakeDaemon) hasContainer(name string) bool {
	for _, c := range d.containers {
		if names, ok := c["Names"].([]string); ok && len(names) > 0 && names[0] == "/"+name {
			return true
		}
	}
	return false
}

// filterVolumes applies the label filter the adapter sends: {"label":{"<key>":true}}.
func (d *fakeDaemon) filterVolumes(raw string) []map[string]any {
	var args map[string]map[string]bool
	_ = json.Unmarshal([]byte(raw), &args)

	result := []map[string]any{}
	for name, labels := range d.volumes {
		match := true
		for key := range args["label"] {
			if _, ok := labels[key]; !ok {
				match = false
			}
		}
		if match {
			result = append(result, map[string]any{"Name": name, "Labels": labels})
		}
	}
	return result
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
