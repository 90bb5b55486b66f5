package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/anjiri1684/skill_tutor/routes"
	"github.com/anjiri1684/skill_tutor/testutil"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Success bool               `json:"success"`
	Data    json.RawMessage    `json:"data"`
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Details []utils.FieldError `json:"details"`
}

func (r apiResponse) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v), string(r.Data))
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func newClient(t *testing.T) *client {
	testutil.OpenTestDB(t)
	return &client{t: t, app: routes.NewApp()}
}

func (c *client) do(method, path, token string, body interface{}) (int, apiResponse) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	require.NoError(c.t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

type httpTest struct {
	name       string
	method     string
	path       string
	token      string
	body       interface{}
	wantStatus int
}

func (c *client) run(tests []httpTest) {
	for _, tt := range tests {
		c.t.Run(tt.name, func(t *testing.T) {
			inner := &client{t: t, app: c.app}
			status, resp := inner.do(tt.method, tt.path, tt.token, tt.body)
			require.Equal(t, tt.wantStatus, status, "%s %s: %s", tt.method, tt.path, resp.Error)
		})
	}
}
