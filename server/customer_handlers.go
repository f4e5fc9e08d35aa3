package server

import (
	"net/http"

	"github.com/jrsteele09/survey-admin/customers"
)

type customerResponse struct {
	Customer *customers.Customer `json:"customer"`
}

type customersResponse struct {
	Customers []*customers.Customer `json:"customers"`
}

func (s *Server) CustomersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.customers.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, customersResponse{Customers: list})
	}
}

func (s *Server) CustomerCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req customers.NewCustomer
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		c, err := s.customers.Create(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, customerResponse{Customer: c})
	}
}

func (s *Server) CustomerGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.customers.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, customerResponse{Customer: c})
	}
}

func (s *Server) CustomerUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req customers.CustomerUpdate
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		c, err := s.customers.Update(r.Context(), r.PathValue("id"), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, customerResponse{Customer: c})
	}
}

func (s *Server) CustomerDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.customers.Delete(r.Context(), r.PathValue("id")); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

type assignTemplateRequest struct {
	FormID string `json:"formId"`
}

func (s *Server) TemplateAssignHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignTemplateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		c, err := s.customers.AssignTemplate(r.Context(), r.PathValue("id"), req.FormID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, customerResponse{Customer: c})
	}
}

func (s *Server) TemplateUnassignHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.customers.UnassignTemplate(r.Context(), r.PathValue("id"), r.PathValue("formId"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, customerResponse{Customer: c})
	}
}
