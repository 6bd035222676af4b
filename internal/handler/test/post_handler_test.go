package test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cofix/internal/apperrors"
	"cofix/internal/models"
)

var mockAny = mock.Anything

func samplePost(id int64) *models.Post {
	return &models.Post{
		Email:       "a@x.com",
		PostID:      id,
		BenefitType: models.CommunityIssue,
		IssueName:   "Pothole",
		Status:      models.StatusPending,
		Urgency:     models.UrgencyMedium,
		CreateDate:  time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreatePostHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*MockPostService)
		expectedStatus int
	}{
		{
			name: "created",
			body: `{"email":"a@x.com","issueName":"Pothole","urgency":"high","location":{"lat":17.4,"lng":78.6}}`,
			mockSetup: func(s *MockPostService) {
				s.On("CreatePost", mockAny, models.PostDraft{
					Email:     "a@x.com",
					IssueName: "Pothole",
					Urgency:   "high",
					Location:  &models.Location{Lat: 17.4, Lng: 78.6},
				}).Return(samplePost(1), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing email",
			body:           `{"issueName":"Pothole"}`,
			mockSetup:      func(s *MockPostService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"email":`,
			mockSetup:      func(s *MockPostService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "service validation error",
			body: `{"email":"a@x.com","urgency":"urgent"}`,
			mockSetup: func(s *MockPostService) {
				s.On("CreatePost", mockAny, mockAny).Return(nil, apperrors.Validation("create post", `unknown urgency "urgent"`))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "store failure hides the cause",
			body: `{"email":"a@x.com"}`,
			mockSetup: func(s *MockPostService) {
				s.On("CreatePost", mockAny, mockAny).Return(nil, apperrors.Persistence("create post", errors.New("pq: secret detail")))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := newTestHandlers(t)
			tt.mockSetup(th.posts)

			rr := th.serve(jsonRequest(http.MethodPost, "/api/posts", tt.body), "a@x.com", "user")

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.NotContains(t, rr.Body.String(), "secret detail")
		})
	}
}

func TestReportIssueHandler(t *testing.T) {
	th := newTestHandlers(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "Broken light"))
	require.NoError(t, writer.WriteField("description", "Dark street"))
	require.NoError(t, writer.WriteField("category", "Electricity"))
	require.NoError(t, writer.WriteField("urgency", "HIGH"))
	require.NoError(t, writer.WriteField("lat", "17.25"))
	require.NoError(t, writer.WriteField("lng", "78.5"))
	require.NoError(t, writer.WriteField("userEmail", "a@x.com"))
	part, err := writer.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	th.posts.On("ReportIssue", mockAny, models.IssueReport{
		Title:       "Broken light",
		Description: "Dark street",
		Category:    "Electricity",
		Urgency:     "HIGH",
		Location:    &models.Location{Lat: 17.25, Lng: 78.5},
		UserEmail:   "a@x.com",
		ImageData:   []byte("jpeg-bytes"),
	}).Return(samplePost(3), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/issues/report", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := th.serve(req, "a@x.com", "user")

	assert.Equal(t, http.StatusCreated, rr.Code)
	var post models.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
	assert.Equal(t, int64(3), post.PostID)
}

func TestReportIssueHandler_BadCoordinate(t *testing.T) {
	th := newTestHandlers(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "t"))
	require.NoError(t, writer.WriteField("lat", "north"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/issues/report", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := th.serve(req, "a@x.com", "user")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReportIssueHandler_MissingCoordinates(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{name: "no coordinates", fields: map[string]string{}},
		{name: "lat only", fields: map[string]string{"lat": "17.25"}},
		{name: "blank lng", fields: map[string]string{"lat": "17.25", "lng": "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := newTestHandlers(t)

			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			require.NoError(t, writer.WriteField("title", "Broken light"))
			require.NoError(t, writer.WriteField("description", "Dark street"))
			require.NoError(t, writer.WriteField("userEmail", "a@x.com"))
			for k, v := range tt.fields {
				require.NoError(t, writer.WriteField(k, v))
			}
			require.NoError(t, writer.Close())

			req := httptest.NewRequest(http.MethodPost, "/api/issues/report", body)
			req.Header.Set("Content-Type", writer.FormDataContentType())

			rr := th.serve(req, "a@x.com", "user")

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			th.posts.AssertNotCalled(t, "ReportIssue", mockAny, mockAny)
		})
	}
}

func TestUpdateIssueHandler(t *testing.T) {
	t.Run("immutable fields in the body are ignored", func(t *testing.T) {
		th := newTestHandlers(t)

		description := "Now deeper"
		th.posts.On("UpdatePost", mockAny,
			models.PostKey{Email: "a@x.com", PostID: 4},
			models.PostPatch{Description: &description},
		).Return(samplePost(4), nil)

		body := `{"email":"a@x.com","description":"Now deeper","createDate":"1999-01-01T00:00:00Z","postId":77,"benefitType":"GOVERNMENT_SCHEME"}`
		rr := th.serve(jsonRequest(http.MethodPut, "/api/profile/issues/4", body), "a@x.com", "user")

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown post", func(t *testing.T) {
		th := newTestHandlers(t)
		th.posts.On("UpdatePost", mockAny, models.PostKey{Email: "a@x.com", PostID: 9}, mockAny).
			Return(nil, apperrors.NotFound("find post", "post 9 of a@x.com not found"))

		rr := th.serve(jsonRequest(http.MethodPut, "/api/profile/issues/9", `{"email":"a@x.com"}`), "a@x.com", "user")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"post 9 of a@x.com not found"}`, rr.Body.String())
	})

	t.Run("email is required", func(t *testing.T) {
		th := newTestHandlers(t)

		rr := th.serve(jsonRequest(http.MethodPut, "/api/profile/issues/9", `{"description":"x"}`), "a@x.com", "user")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteIssueHandler(t *testing.T) {
	th := newTestHandlers(t)
	th.posts.On("DeletePost", mockAny, int64(12)).Return(nil)

	rr := th.serve(httptest.NewRequest(http.MethodDelete, "/api/profile/issues/12", nil), "a@x.com", "user")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestListIssuesHandler(t *testing.T) {
	t.Run("filtered by type", func(t *testing.T) {
		th := newTestHandlers(t)
		th.posts.On("ListByType", mockAny, "GOVERNMENT_SCHEME").Return([]models.Post{*samplePost(1)}, nil)

		rr := th.serve(httptest.NewRequest(http.MethodGet, "/api/issues?benefitType=GOVERNMENT_SCHEME", nil), "a@x.com", "user")

		assert.Equal(t, http.StatusOK, rr.Code)
		var posts []models.Post
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
		assert.Len(t, posts, 1)
	})

	t.Run("empty list encodes as array", func(t *testing.T) {
		th := newTestHandlers(t)
		th.posts.On("ListAll", mockAny).Return(nil, nil)

		rr := th.serve(httptest.NewRequest(http.MethodGet, "/api/issues", nil), "a@x.com", "user")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}

func TestProfilePostsHandler(t *testing.T) {
	th := newTestHandlers(t)
	th.posts.On("ListByEmailAndType", mockAny, "a@x.com", "COMMUNITY_ISSUE").Return([]models.Post{*samplePost(2)}, nil)

	rr := th.serve(httptest.NewRequest(http.MethodGet, "/api/profile/posts?benefitType=COMMUNITY_ISSUE", nil), "a@x.com", "user")

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminUpdateStatusHandler(t *testing.T) {
	t.Run("query parameters", func(t *testing.T) {
		th := newTestHandlers(t)

		solved := samplePost(7)
		solved.Status = models.StatusSolved
		th.posts.On("UpdateStatus", mockAny, int64(7), "SOLVED", "boss@x.com").Return(solved, nil)

		req := httptest.NewRequest(http.MethodPut, "/api/admin/issues/update/7?status=SOLVED&adminEmail=boss@x.com", nil)
		rr := th.serve(req, "admin@x.com", "admin")

		assert.Equal(t, http.StatusOK, rr.Code)
		var post models.Post
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
		assert.Equal(t, models.StatusSolved, post.Status)
	})

	t.Run("admin email defaults to the caller", func(t *testing.T) {
		th := newTestHandlers(t)
		th.posts.On("UpdateStatus", mockAny, int64(7), "IN_PROGRESS", "admin@x.com").Return(samplePost(7), nil)

		req := httptest.NewRequest(http.MethodPut, "/api/admin/issues/update/7", strings.NewReader("status=IN_PROGRESS"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := th.serve(req, "admin@x.com", "admin")

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("invalid status", func(t *testing.T) {
		th := newTestHandlers(t)
		th.posts.On("UpdateStatus", mockAny, int64(7), "CLOSED", "admin@x.com").
			Return(nil, apperrors.Validation("update status", `unknown status "CLOSED"`))

		req := httptest.NewRequest(http.MethodPut, "/api/admin/issues/update/7?status=CLOSED", nil)
		rr := th.serve(req, "admin@x.com", "admin")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
