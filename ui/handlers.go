package ui

import (
	"encoding/json"
	stderrors "errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strings"

	"gradebook/app"
	"gradebook/domain/student"
	"gradebook/internal/errors"

	"github.com/gin-gonic/gin"
)

// Toggle names accepted in the "show" query parameter
const (
	showTable    = "table"
	showHist     = "hist"
	showAverages = "avg"
	showPassFail = "passfail"
	showStats    = "stats"
)

type flash struct {
	Kind    string
	Message string
}

type pageData struct {
	Title      string
	AllClasses []string
	Report     *app.Report
	Show       map[string]bool
	ChartQuery template.URL
	Flash      *flash
	Form       student.RawCandidate
	Footer     template.HTML
	RequestID  string
}

// selectedClasses reads the repeatable "class" parameter from the query
// string, or from the form body on POST.
func selectedClasses(c *gin.Context) []string {
	var classes []string
	raw := c.QueryArray("class")
	if c.Request.Method == http.MethodPost {
		raw = append(raw, c.PostFormArray("filter_class")...)
	}
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			classes = append(classes, v)
		}
	}
	return classes
}

func showToggles(c *gin.Context) map[string]bool {
	show := make(map[string]bool)
	for _, v := range c.QueryArray("show") {
		show[v] = true
	}
	return show
}

func chartQuery(classes []string) template.URL {
	if len(classes) == 0 {
		return ""
	}
	q := url.Values{"class": classes}
	return template.URL("?" + q.Encode())
}

// handleIndex serves the form, filter and the toggled report sections
func (s *Server) handleIndex(c *gin.Context) {
	s.renderIndex(c, http.StatusOK, nil, student.RawCandidate{})
}

func (s *Server) renderIndex(c *gin.Context, status int, msg *flash, form student.RawCandidate) {
	classes := selectedClasses(c)
	show := showToggles(c)

	opts := app.ReportOptions{
		Classes:   classes,
		Table:     show[showTable] || len(classes) > 0,
		Histogram: show[showHist],
		Averages:  show[showAverages],
		PassFail:  show[showPassFail],
		Stats:     show[showStats],
	}
	report, err := s.roster.Report(c.Request.Context(), opts)
	if err != nil {
		log.Printf("[Index] Failed to build report: %v", err)
		c.JSON(errorStatus(err), errorBody(c, err))
		return
	}

	s.renderTemplate(c, status, "index.html", pageData{
		Title:      s.title,
		AllClasses: student.Classes,
		Report:     report,
		Show:       show,
		ChartQuery: chartQuery(classes),
		Flash:      msg,
		Form:       form,
		Footer:     s.footer,
		RequestID:  requestID(c),
	})
}

// handleSubmit accepts a new record from an HTML form or a JSON body
func (s *Server) handleSubmit(c *gin.Context) {
	if c.ContentType() == gin.MIMEJSON {
		s.submitJSON(c)
		return
	}

	raw := student.RawCandidate{
		Name:       c.PostForm("name"),
		RollNumber: c.PostForm("roll_number"),
		Class:      c.PostForm("class"),
		Marks:      c.PostForm("marks"),
	}

	candidate, err := raw.Candidate()
	if err == nil {
		var result app.SubmitResult
		result, err = s.roster.Submit(c.Request.Context(), candidate)
		if err == nil {
			s.renderIndex(c, http.StatusOK, &flash{Kind: "success", Message: "Data saved successfully"}, student.RawCandidate{})
			return
		}
		log.Printf("[Submit] %s rejected: %s", requestID(c), result.Reason)
	}

	if errors.IsValidation(err) {
		s.renderIndex(c, http.StatusUnprocessableEntity, &flash{Kind: "error", Message: validationMessage(err)}, raw)
		return
	}
	c.JSON(errorStatus(err), errorBody(c, err))
}

func (s *Server) submitJSON(c *gin.Context) {
	var submission student.Submission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorBody(c, bindError(err)))
		return
	}
	candidate, err := submission.Candidate()
	if err != nil {
		c.JSON(errorStatus(err), errorBody(c, err))
		return
	}

	result, err := s.roster.Submit(c.Request.Context(), candidate)
	if err != nil {
		c.JSON(errorStatus(err), errorBody(c, err))
		return
	}
	c.JSON(http.StatusCreated, result)
}

// handleListStudents returns the (filtered) table as JSON
func (s *Server) handleListStudents(c *gin.Context) {
	report, err := s.roster.Report(c.Request.Context(), app.ReportOptions{Classes: selectedClasses(c), Table: true})
	if err != nil {
		c.JSON(errorStatus(err), errorBody(c, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records":   report.Rows,
		"count":     len(report.Rows),
		"total":     report.Total,
		"available": report.Available,
	})
}

// handleStats returns every aggregate over the filtered view as JSON
func (s *Server) handleStats(c *gin.Context) {
	opts := app.AllSections(selectedClasses(c))
	opts.Table = false
	report, err := s.roster.Report(c.Request.Context(), opts)
	if err != nil {
		c.JSON(errorStatus(err), errorBody(c, err))
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleHealth(c *gin.Context) {
	if _, err := s.roster.Table(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, errorBody(c, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindError classifies JSON decoding failures
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) && typeErr.Field == "marks" {
		return errors.InvalidMarks("marks must be a number")
	}
	return errors.InvalidInput("request body must be a JSON object with name, roll_number, class and marks")
}

func errorStatus(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.HasCode(err, errors.CodeEmptyView):
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(c *gin.Context, err error) gin.H {
	return gin.H{
		"code":       errors.GetCode(err),
		"error":      err.Error(),
		"request_id": requestID(c),
	}
}

func validationMessage(err error) string {
	if errors.HasCode(err, errors.CodeMissingField) {
		return "Please fill in all fields! " + err.Error()
	}
	return err.Error()
}
