package mapper

import (
	"fmt"
	"net/http"

	"github.com/mongomap/mongomap/pkg/server/router"
)

// respond funnels every store outcome into the response-writing contract.
//
// Store errors are logged and reported as a generic 500 body, never retried.
// Successful results pass through the post-load processor, are normalized to
// a list, filtered per item (rejections are silently dropped, not errors)
// and optionally enveloped with per-item annotation. The body is always a
// list at this point, even for single-document operations. Non-document
// results (e.g. a removal count) short-circuit to a plain text 200 body.
func (s *Service) respond(c router.Context, cfg config, results interface{}, err error) error {
	if err != nil {
		s.log.Error("database operation failed",
			"collection", cfg.collectionName,
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "database_error",
			Message: "database operation failed",
		})
	}

	if cfg.postLoad != nil {
		results = cfg.postLoad(results, c)
	}

	var list []map[string]interface{}
	switch v := results.(type) {
	case nil:
		list = nil
	case map[string]interface{}:
		list = []map[string]interface{}{v}
	case []map[string]interface{}:
		list = v
	default:
		return c.String(http.StatusOK, fmt.Sprintf("%v", v))
	}

	if cfg.useEnvelope {
		wrapped := make([]Envelope, 0, len(list))
		for _, doc := range list {
			if cfg.filter != nil && !cfg.filter(doc, c) {
				continue
			}
			env := Envelope{Meta: Meta{Can: map[string]interface{}{}}, Data: doc}
			if cfg.annotate != nil {
				cfg.annotate(c, &env)
			}
			wrapped = append(wrapped, env)
		}
		return c.JSON(http.StatusOK, wrapped)
	}

	plain := make([]map[string]interface{}, 0, len(list))
	for _, doc := range list {
		if cfg.filter != nil && !cfg.filter(doc, c) {
			continue
		}
		plain = append(plain, doc)
	}
	return c.JSON(http.StatusOK, plain)
}
