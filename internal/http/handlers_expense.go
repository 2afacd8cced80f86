package http

import (
	"net/http"
	"time"

	"expensemate/internal/core"
	applog "expensemate/internal/log"
	"expensemate/internal/notify"
	"expensemate/internal/services"
)

type expensesPage struct {
	State ListState
	Rows  expenseRows
}

// expenseRows is the data of the "expense_rows" partial.
type expenseRows struct {
	Records []core.ExpenseRecord
	Total   int
	Query   string
}

func (s *Server) listExpenses(r *http.Request) (ListState, services.ListResult, error) {
	state := ParseListState(r.URL.Query())
	if !state.StatusValid {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Unknown status filter", "status", state.StatusRaw)
	}
	res, err := s.svc.ListExpenses(r.Context(), state.Filter())
	if err != nil {
		return state, res, err
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogFilterApplied(r.Context(), state.Query, state.Status.Value(), len(res.Records), res.Total)
	return state, res, nil
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	state, res, err := s.listExpenses(r)
	if err != nil {
		s.serverError(w, r, err, applog.OpFilter)
		return
	}
	s.renderPage(w, r, http.StatusOK, pageExpenses, "Expenses", expensesPage{
		State: state,
		Rows:  expenseRows{Records: res.Records, Total: res.Total, Query: state.Query},
	})
}

// handleExpenseRows renders the result table body for the search box and
// status select.
func (s *Server) handleExpenseRows(w http.ResponseWriter, r *http.Request) {
	state, res, err := s.listExpenses(r)
	if err != nil {
		s.serverError(w, r, err, applog.OpFilter)
		return
	}
	if b := s.renderPartial(w, r, http.StatusOK, "expense_rows",
		expenseRows{Records: res.Records, Total: res.Total, Query: state.Query}); b != nil {
		b.Write(w)
	}
}

type expenseFormView struct {
	Form       ExpenseForm
	Errors     FieldErrors
	Categories []string
	Today      string
}

func (s *Server) freshForm() expenseFormView {
	return expenseFormView{
		Form:       ExpenseForm{Date: time.Now().Format(core.DateLayout)},
		Categories: ExpenseCategories,
	}
}

func (s *Server) handleNewExpenseForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, pageNewExpense, "New Expense", s.freshForm())
}

// handleSubmitExpense validates the entry form. Nothing is stored: a valid
// submission is acknowledged and the form is reset.
func (s *Server) handleSubmitExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Parse form error",
			"error", err, "url", r.URL.Path, "content_type", parser.ContentType())
		BadRequestError("Invalid request format").Write(w)
		return
	}

	form := expenseFormFromValues(parser.Values(formFields...))
	fieldErrs, err := validateForm(s.validate, form)
	if err != nil {
		s.serverError(w, r, err, applog.OpValidate)
		return
	}

	if len(fieldErrs) > 0 {
		applog.FromContext(r.Context()).InfoContext(r.Context(), "Expense form rejected",
			"fields", len(fieldErrs), "json", parser.IsJSON())
		if b := s.renderPartial(w, r, http.StatusUnprocessableEntity, "expense_form", expenseFormView{
			Form:       form,
			Errors:     fieldErrs,
			Categories: ExpenseCategories,
		}); b != nil {
			b.Write(w)
		}
		return
	}

	n := notify.ExpenseSubmitted()
	s.svc.Notify(r.Context(), n)
	if b := s.renderPartial(w, r, http.StatusOK, "expense_form", s.freshForm()); b != nil {
		b.TriggerNotification(n).TriggerFormReset().Write(w)
	}
}
