package web

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	directorydto "helpdesk/internal/application/directory/dto"
	"helpdesk/internal/application/problem/dto"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/shared/utils"
)

func render(t *testing.T, name string, data map[string]any) string {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, name, data))
	return buf.String()
}

func TestTemplates_ProblemDetail(t *testing.T) {
	old := "open"
	due := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	problem := &dto.ProblemDTO{
		ID:                 3,
		Number:             "PRB-2026-0003",
		Title:              "Printer <offline>",
		DescriptionHTML:    template.HTML("<p><strong>Floor 3</strong></p>"),
		Priority:           "high",
		Status:             "assigned",
		Reporter:           &dto.UserSummaryDTO{ID: 1, Name: "Ada Byron", Email: "ada@example.com"},
		SLAResolutionDue:   &due,
		SLABreached:        true,
		AllowedTransitions: []string{"in_progress", "awaiting_user"},
		History: []dto.StatusHistoryDTO{
			{ID: 1, NewStatus: "open", Reason: "Problem reported"},
			{ID: 2, OldStatus: &old, NewStatus: "assigned", ChangedBy: &dto.UserSummaryDTO{Name: "Op"}},
		},
	}

	html := render(t, "problem_detail.html", map[string]any{
		"Title":       problem.Number,
		"Problem":     problem,
		"CurrentUser": &permission.Principal{UserID: 1, Name: "Op"},
		"CSRFToken":   "tok-123",
		"Flash":       &utils.ActionResult{Success: false, Error: "Cannot transition from closed to open"},
		"Specialists": []directorydto.StaffDTO{{ID: 20, Name: "Sam Spec", Department: "IT"}},
		"CanUpdate":   true,
		"CanAssign":   true,
		"CanDelete":   false,
	})

	assert.Contains(t, html, "PRB-2026-0003")
	assert.Contains(t, html, "Printer &lt;offline&gt;")
	assert.Contains(t, html, "<strong>Floor 3</strong>")
	assert.Contains(t, html, `value="in_progress"`)
	assert.Contains(t, html, "awaiting user")
	assert.Contains(t, html, "SLA breached")
	assert.Contains(t, html, "Sam Spec (IT)")
	assert.Contains(t, html, "Cannot transition from closed to open")
	assert.Contains(t, html, `value="tok-123"`)
	assert.Contains(t, html, "2026-05-01 12:00")
	assert.NotContains(t, html, "Delete problem")
}

func TestTemplates_Dashboard(t *testing.T) {
	html := render(t, "dashboard.html", map[string]any{
		"Title": "Dashboard",
		"Stats": &dto.DashboardStatsDTO{
			Total: 12, Open: 4, Urgent: 2,
			RecentProblems: []dto.ProblemListItemDTO{{ID: 9, Number: "PRB-2026-0009", Status: "in_progress"}},
		},
		"Flash": &utils.ActionResult{Success: true},
	})

	assert.Contains(t, html, "<h2>12</h2>")
	assert.Contains(t, html, "PRB-2026-0009")
	assert.Contains(t, html, "in progress")
	assert.Contains(t, html, "Saved.")
	assert.Contains(t, html, "No active specialists.")
}

func TestTemplates_ProblemsSelectsCurrentStatus(t *testing.T) {
	html := render(t, "problems.html", map[string]any{
		"Problems": []dto.ProblemListItemDTO{},
		"Count":    0,
		"Status":   "resolved",
		"Statuses": []string{"open", "resolved"},
	})

	assert.Contains(t, html, `<option value="resolved" selected>`)
	assert.Contains(t, html, "No problems match this filter.")
}

func TestTemplates_LoginAndError(t *testing.T) {
	html := render(t, "login.html", map[string]any{
		"Error":       "Invalid email or password",
		"Email":       "ada@example.com",
		"CallbackURL": "/dashboard/problems/3",
	})
	assert.Contains(t, html, "Invalid email or password")
	assert.Contains(t, html, `value="/dashboard/problems/3"`)

	html = render(t, "error.html", map[string]any{"Status": 403, "Message": "You do not have permission to perform this action"})
	assert.Contains(t, html, "<h1>403</h1>")
}

func TestFuncMap_FormatTimePtr(t *testing.T) {
	format := FuncMap()["formatTimePtr"].(func(*time.Time) string)
	assert.Empty(t, format(nil))
}
