package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// AnswerService answers questions over ingested documents.
type AnswerService interface {
	// Retrieve runs document routing, query optimization, vector search,
	// and context assembly in one call. The result is never nil on a nil
	// error; an empty Context means nothing relevant was found.
	// The session is read for history but not modified.
	Retrieve(ctx context.Context, session *domain.Session, query string, opts domain.RetrieveOptions) (*domain.RetrievalResult, error)

	// Ask runs Retrieve and then generates a grounded answer.
	// On success both the question and the answer are appended to the
	// session; on error the session is left untouched.
	Ask(ctx context.Context, session *domain.Session, query string, opts domain.RetrieveOptions) (*domain.Answer, error)
}
