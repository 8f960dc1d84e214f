package web

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

const topicsFixture = `{"topics": [
	{"title": "Go 1.25 released", "description": "New GC knobs", "source": "HN", "category": "Dev"},
	{"title": "Quantum breakthrough", "source": "Nature"},
	{"title": "AI beats benchmark", "category": "AI"}
]}`

func TestAIConsoleWithoutSite(t *testing.T) {
	router := newFrontend(t, &fakeAPI{})

	recorder := authedGet(router, "/admin/ai-content")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Select a site to load its trending topics.") {
		t.Errorf("Expected site prompt, got:\n%s", recorder.Body.String())
	}
}

func TestAIConsoleRendersTopics(t *testing.T) {
	router := newFrontend(t, &fakeAPI{topicsJSON: topicsFixture})

	body := authedGet(router, "/admin/ai-content?site=tech").Body.String()

	// A selected site must still yield a complete document, not a
	// render aborted inside the shared head
	if !strings.Contains(body, "</html>") {
		t.Fatalf("Expected complete document, got:\n%s", body)
	}

	for _, want := range []string{"Go 1.25 released", "Quantum breakthrough", "AI beats benchmark", "New GC knobs"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected topic content %q, got:\n%s", want, body)
		}
	}
	// Three topics are enough to enable the daily top 3 action
	if strings.Contains(body, "disabled") {
		t.Errorf("Expected enabled top 3 button, got:\n%s", body)
	}
}

func TestAIConsoleTooFewTopicsDisablesTop3(t *testing.T) {
	api := &fakeAPI{topicsJSON: `{"topics": [{"title": "Only one"}]}`}
	router := newFrontend(t, api)

	body := authedGet(router, "/admin/ai-content?site=tech").Body.String()
	if !strings.Contains(body, "disabled") {
		t.Errorf("Expected disabled top 3 button, got:\n%s", body)
	}
}

func TestAIConsoleTopicsFailureShowsEmptyState(t *testing.T) {
	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/check/":
			w.Write([]byte(`{"authenticated": true}`))
		case "/api/sites/":
			w.Write([]byte(siteFixture))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	router := newFrontend(t, failing)

	recorder := authedGet(router, "/admin/ai-content?site=tech")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200 despite topics failure, got: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "No trending topics available") {
		t.Errorf("Expected empty state, got:\n%s", recorder.Body.String())
	}
}

func TestGenerateSingleTopic(t *testing.T) {
	api := &fakeAPI{topicsJSON: topicsFixture}
	router := newFrontend(t, api)

	form := url.Values{"site": {"tech"}, "topic": {"Go 1.25 released"}}
	recorder := authedPost(router, "/admin/ai-content/generate", form)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", recorder.Code)
	}
	if api.generated != 1 || api.created != 1 {
		t.Errorf("Expected one generate and one create call, got generate=%d create=%d", api.generated, api.created)
	}

	body := recorder.Body.String()
	if !strings.Contains(body, "</html>") {
		t.Fatalf("Expected complete document, got:\n%s", body)
	}
	if !strings.Contains(body, "Daily Top 3") {
		t.Errorf("Expected generated title, got:\n%s", body)
	}
	if !strings.Contains(body, "Saved as pending article #42") {
		t.Errorf("Expected saved confirmation, got:\n%s", body)
	}
	if !strings.Contains(body, `<h2>Intro</h2>`) || !strings.Contains(body, `<p>Text</p>`) {
		t.Errorf("Expected rendered sections, got:\n%s", body)
	}
}

func TestGenerateDailyTop3RequiresTopics(t *testing.T) {
	api := &fakeAPI{topicsJSON: `{"topics": [{"title": "Only one"}]}`}
	router := newFrontend(t, api)

	recorder := authedPost(router, "/admin/ai-content/generate", url.Values{"site": {"tech"}})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", recorder.Code)
	}
	if api.generated != 0 {
		t.Errorf("Expected no generation with too few topics, got: %d", api.generated)
	}
	if !strings.Contains(recorder.Body.String(), "At least 3 trending topics are required") {
		t.Errorf("Expected console error, got:\n%s", recorder.Body.String())
	}
}

func TestGenerateDailyTop3(t *testing.T) {
	api := &fakeAPI{topicsJSON: topicsFixture}
	router := newFrontend(t, api)

	recorder := authedPost(router, "/admin/ai-content/generate", url.Values{"site": {"tech"}})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", recorder.Code)
	}
	if api.generated != 1 || api.created != 1 {
		t.Errorf("Expected one generate and one create call, got generate=%d create=%d", api.generated, api.created)
	}
}

func TestGenerateWithoutSite(t *testing.T) {
	api := &fakeAPI{}
	router := newFrontend(t, api)

	recorder := authedPost(router, "/admin/ai-content/generate", url.Values{"topic": {"Something"}})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", recorder.Code)
	}
	if api.generated != 0 {
		t.Errorf("Expected no generation without a site, got: %d", api.generated)
	}
	if !strings.Contains(recorder.Body.String(), "Select a site before generating content.") {
		t.Errorf("Expected console error, got:\n%s", recorder.Body.String())
	}
}

func TestGeneratePersistFailureShowsWarning(t *testing.T) {
	api := &fakeAPI{topicsJSON: topicsFixture, failCreate: true}
	router := newFrontend(t, api)

	form := url.Values{"site": {"tech"}, "topic": {"Go 1.25 released"}}
	recorder := authedPost(router, "/admin/ai-content/generate", form)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", recorder.Code)
	}

	body := recorder.Body.String()
	if !strings.Contains(body, "could not be saved") {
		t.Errorf("Expected persistence warning, got:\n%s", body)
	}
	if strings.Contains(body, "Saved as pending article") {
		t.Errorf("Expected no saved confirmation after failed persist, got:\n%s", body)
	}
	// The generated preview is still shown in full
	if !strings.Contains(body, "Daily Top 3") {
		t.Errorf("Expected generated preview despite failed persist, got:\n%s", body)
	}
}
