package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cucumber/godog"

	"github.com/storyhub-org/storyhub/pkg/authn"
	"github.com/storyhub-org/storyhub/pkg/importer"
	"github.com/storyhub-org/storyhub/pkg/model"
)

// account is a profile created by a step, keyed by display name.
type account struct {
	profile *model.Profile
	apiKey  string
	token   string
}

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	accounts     map[string]*account
	current      *account
	response     *http.Response
	responseBody []byte
	saved        map[string]string
	importResult importer.Result
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:       tc,
		accounts: make(map[string]*account),
		saved:    make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a storyhub server is running$`, s.aStoryhubServerIsRunning)
	sc.Step(`^an? (admin|editor|storyteller) "([^"]*)" exists$`, s.aProfileExists)
	sc.Step(`^an? (admin|editor|storyteller) "([^"]*)" exists with permissions "([^"]*)"$`, s.aProfileExistsWithPermissions)

	sc.Step(`^I log in as "([^"]*)"$`, s.iLogInAs)
	sc.Step(`^I log in as "([^"]*)" with API key "([^"]*)"$`, s.iLogInWithAPIKey)
	sc.Step(`^I send a (GET|POST|PUT|PATCH|DELETE) request to "([^"]*)"$`, s.iSendARequest)
	sc.Step(`^I send a (POST|PUT|PATCH) request to "([^"]*)" with body:$`, s.iSendARequestWithBody)
	sc.Step(`^I upload the files "([^"]*)"$`, s.iUploadTheFiles)
	sc.Step(`^I save the response JSON "([^"]*)" as "([^"]*)"$`, s.iSaveTheResponseJSON)

	sc.Step(`^I import (profiles|stories) from:$`, s.iImportFrom)
	sc.Step(`^the import should report (\d+) created and (\d+) skipped$`, s.theImportShouldReport)

	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response JSON "([^"]*)" should be "([^"]*)"$`, s.theResponseJSONShouldBe)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
	sc.Step(`^the response header "([^"]*)" should start with "([^"]*)"$`, s.theResponseHeaderShouldStartWith)
}

func (s *StepsContext) aStoryhubServerIsRunning() error {
	return nil
}

func (s *StepsContext) aProfileExists(role, name string) error {
	return s.aProfileExistsWithPermissions(role, name, "")
}

func (s *StepsContext) aProfileExistsWithPermissions(role, name, perms string) error {
	ctx := context.Background()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.org"
	p := &model.Profile{
		DisplayName: name,
		Email:       &email,
		Role:        model.Role(role),
		IsActive:    true,
	}
	for _, flag := range strings.Split(perms, ",") {
		switch strings.TrimSpace(flag) {
		case "can_publish":
			p.CanPublish = true
		case "can_upload":
			p.CanUpload = true
		case "can_manage_projects":
			p.CanManageProjects = true
		case "":
		default:
			return fmt.Errorf("unknown permission %q", flag)
		}
	}
	if err := s.tc.Stores.Profiles.CreateProfile(ctx, p); err != nil {
		return err
	}

	key, err := authn.NewAuthenticator(s.tc.Stores.Profiles, s.tc.Stores.Credentials, nil).RotateAPIKey(ctx, p.ID)
	if err != nil {
		return err
	}
	s.accounts[name] = &account{profile: p, apiKey: key}
	return nil
}

func (s *StepsContext) iLogInAs(name string) error {
	acct, ok := s.accounts[name]
	if !ok {
		return fmt.Errorf("no profile named %q", name)
	}
	if err := s.iLogInWithAPIKey(name, acct.apiKey); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("login as %s failed with %d: %s", name, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) iLogInWithAPIKey(name, apiKey string) error {
	acct, ok := s.accounts[name]
	if !ok {
		return fmt.Errorf("no profile named %q", name)
	}
	body, _ := json.Marshal(map[string]string{"email": *acct.profile.Email, "api_key": apiKey})
	if err := s.do(http.MethodPost, "/authn/login", "application/json", bytes.NewReader(body)); err != nil {
		return err
	}
	if s.response.StatusCode == http.StatusOK {
		var login struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(s.responseBody, &login); err != nil {
			return fmt.Errorf("failed to parse login response: %w", err)
		}
		acct.token = login.Token
		s.current = acct
	}
	return nil
}

func (s *StepsContext) iSendARequest(method, path string) error {
	return s.do(method, s.expand(path), "", nil)
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.do(method, s.expand(path), "application/json", strings.NewReader(s.expand(body.Content)))
}

// sampleContent returns bytes the server will classify by extension. Files
// with the same extension get identical content.
func sampleContent(name string) []byte {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return []byte("\x89PNG\r\n\x1a\nsample image")
	case ".mp3":
		return []byte("ID3 sample audio")
	case ".txt":
		return []byte("sample transcript")
	}
	return []byte("PK\x03\x04 sample archive")
}

func (s *StepsContext) iUploadTheFiles(names string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		w, err := mw.CreateFormFile("files", name)
		if err != nil {
			return err
		}
		if _, err := w.Write(sampleContent(name)); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}
	return s.do(http.MethodPost, "/media/uploads", mw.FormDataContentType(), &buf)
}

func (s *StepsContext) iSaveTheResponseJSON(path, name string) error {
	v, err := s.jsonValue(path)
	if err != nil {
		return err
	}
	s.saved[name] = fmt.Sprint(v)
	return nil
}

func (s *StepsContext) iImportFrom(kind string, doc *godog.DocString) error {
	dir, err := os.MkdirTemp("", "storyhub-import-")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, kind+".json")
	if err := os.WriteFile(path, []byte(doc.Content), 0o600); err != nil {
		return err
	}

	ctx := context.Background()
	bundle, err := importer.Load(ctx, nil, path, kind)
	if err != nil {
		return err
	}
	im := importer.New(s.tc.Stores.Profiles, s.tc.Stores.Stories)
	if kind == "profiles" {
		s.importResult = im.ImportProfiles(ctx, bundle.Profiles)
	} else {
		s.importResult = im.ImportStories(ctx, bundle.Stories)
	}
	return nil
}

func (s *StepsContext) theImportShouldReport(created, skipped int) error {
	if s.importResult.Created != created || s.importResult.Skipped != skipped {
		return fmt.Errorf("expected %d created and %d skipped, got %+v", created, skipped, s.importResult)
	}
	return nil
}

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseJSONShouldBe(path, expected string) error {
	v, err := s.jsonValue(path)
	if err != nil {
		return err
	}
	if actual := fmt.Sprint(v); actual != s.expand(expected) {
		return fmt.Errorf("expected %s to be %q, got %q", path, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("expected body to contain %q, got %s", expected, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseHeaderShouldStartWith(header, prefix string) error {
	if actual := s.response.Header.Get(header); !strings.HasPrefix(actual, prefix) {
		return fmt.Errorf("expected %s to start with %q, got %q", header, prefix, actual)
	}
	return nil
}

func (s *StepsContext) do(method, path, contentType string, body io.Reader) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.current != nil && s.current.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.current.token)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

var placeholder = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// expand replaces {{id:Name}} with a profile id and {{name}} with a value
// saved from an earlier response.
func (s *StepsContext) expand(text string) string {
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		key := strings.TrimSpace(m[2 : len(m)-2])
		if name, ok := strings.CutPrefix(key, "id:"); ok {
			if acct, ok := s.accounts[name]; ok {
				return acct.profile.ID.String()
			}
			return m
		}
		if v, ok := s.saved[key]; ok {
			return v
		}
		return m
	})
}

// jsonValue walks a dotted path such as "summary.total" or "items.0.status".
func (s *StepsContext) jsonValue(path string) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(s.responseBody, &v); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	for _, part := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]interface{}:
			next, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("%s not found in response", path)
			}
			v = next
		case []interface{}:
			var i int
			if _, err := fmt.Sscanf(part, "%d", &i); err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("%s: bad index %q", path, part)
			}
			v = node[i]
		default:
			return nil, fmt.Errorf("%s: cannot descend into %T", path, v)
		}
	}
	return v, nil
}
