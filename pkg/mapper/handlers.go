package mapper

import (
	"errors"
	"net/http"

	"github.com/mongomap/mongomap/pkg/server/router"
)

// errorResponse is the JSON body for all non-200 outcomes.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// fetchHandler builds the query, decorates it, executes a find-all read and
// routes the outcome through the responder. Filtering happens post-hoc in
// the responder, per item.
func (s *Service) fetchHandler(cfg config) router.HandlerFunc {
	return func(c router.Context) error {
		q, err := BuildQuery(c, cfg.required, cfg.optional)
		if err != nil {
			return s.badRequest(c, err)
		}
		if cfg.decorate != nil {
			cfg.decorate(q, c)
		}

		docs, err := cfg.collection.Find(c.Request().Context(), q)
		return s.respond(c, cfg, docs, err)
	}
}

// createHandler constructs a candidate document from the full request body,
// gates it through the visibility filter before any persistence, and saves.
func (s *Service) createHandler(cfg config) router.HandlerFunc {
	return func(c router.Context) error {
		doc := map[string]interface{}{}
		if err := c.Bind(&doc); err != nil {
			return c.JSON(http.StatusInternalServerError, errorResponse{
				Error:   "creation_failed",
				Message: "could not construct document from request body",
			})
		}

		if cfg.filter != nil && !cfg.filter(doc, c) {
			return s.unauthorized(c)
		}

		saved, err := cfg.collection.Save(c.Request().Context(), doc)
		if err != nil {
			return s.handleError(c, err)
		}
		return s.respond(c, cfg, saved, nil)
	}
}

// replaceHandler fetches the single matching document, authorizes it, merges
// the request body onto it (identity and version keys excluded by
// construction) and persists via the collection save path so registered
// pre-save hooks still run. Despite the operation's name this is a merge:
// fields absent from the body are left untouched.
func (s *Service) replaceHandler(cfg config) router.HandlerFunc {
	return func(c router.Context) error {
		q, err := BuildQuery(c, cfg.required, cfg.optional)
		if err != nil {
			return s.badRequest(c, err)
		}
		if cfg.decorate != nil {
			cfg.decorate(q, c)
		}

		ctx := c.Request().Context()
		doc, err := cfg.collection.FindOne(ctx, q)
		if err != nil {
			return s.handleError(c, err)
		}
		if doc == nil {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "not_found"})
		}
		if cfg.filter != nil && !cfg.filter(doc, c) {
			return s.unauthorized(c)
		}

		patch := map[string]interface{}{}
		if err := c.Bind(&patch); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_request_body"})
		}
		mergeDocument(doc, patch)

		saved, err := cfg.collection.Save(ctx, doc)
		if err != nil {
			return s.handleError(c, err)
		}
		return s.respond(c, cfg, saved, nil)
	}
}

// deleteHandler issues a bulk removal matching the built query. No
// per-document filter is applied before deletion; route owners that need
// authorization on delete must constrain the query via the decorator.
func (s *Service) deleteHandler(cfg config) router.HandlerFunc {
	return func(c router.Context) error {
		q, err := BuildQuery(c, cfg.required, cfg.optional)
		if err != nil {
			return s.badRequest(c, err)
		}
		if cfg.decorate != nil {
			cfg.decorate(q, c)
		}

		removed, err := cfg.collection.Remove(c.Request().Context(), q)
		return s.respond(c, cfg, removed, err)
	}
}

func (s *Service) badRequest(c router.Context, err error) error {
	var missing *MissingFieldError
	if errors.As(err, &missing) {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error: "missing_required_field",
			Field: missing.Field,
		})
	}
	return c.JSON(http.StatusBadRequest, errorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

func (s *Service) unauthorized(c router.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}
