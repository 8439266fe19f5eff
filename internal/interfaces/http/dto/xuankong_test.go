package dto

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "xuankong-api/pkg/errors"
)

func bind(t *testing.T, body string, obj any) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return BindJSON(c, obj)
}

func TestBindJSONTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		obj  any
		want string
	}{
		{"embedded facing", `{"facing":"abc","buildYear":2020}`, &ComprehensiveAnalysisRequest{}, msgInvalidFacing},
		{"embedded build year", `{"facing":180,"buildYear":"2020"}`, &DiagnosisRequest{}, msgInvalidBuildYear},
		{"plain house request", `{"facing":true}`, &HouseRequest{}, msgInvalidFacing},
		{"other field", `{"facing":180,"buildYear":2020,"budget":"cheap"}`, &ComprehensiveAnalysisRequest{}, "invalid value for field budget"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bind(t, tt.body, tt.obj)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam), "%v", err)
			assert.Equal(t, tt.want, apperrors.AsAppError(err).Message)
			assert.NotContains(t, err.Error(), "HouseRequest")
		})
	}
}

func TestBindJSONMalformedBody(t *testing.T) {
	err := bind(t, `{"facing":`, &HouseRequest{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam))
}
