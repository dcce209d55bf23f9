package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"funnelscope/domain/core"
)

func TestFromImportError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"empty", core.ErrEmptyInput, CodeEmptyInput, http.StatusUnprocessableEntity},
		{"header", fmt.Errorf("%w: scanned 3 lines", core.ErrHeaderNotFound), CodeHeaderNotFound, http.StatusUnprocessableEntity},
		{"no rows", core.ErrNoDataRows, CodeNoDataRows, http.StatusUnprocessableEntity},
		{"format", core.NewUnsupportedFormatError("a.pdf", ".pdf"), CodeUnsupportedFormat, http.StatusUnsupportedMediaType},
		{"read", core.NewReadError("a.csv", stderrors.New("disk")), CodeReadFailure, http.StatusBadRequest},
		{"not found", core.NewNotFoundError("import", "x"), CodeNotFound, http.StatusNotFound},
		{"other", stderrors.New("boom"), CodeInternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromImportError(tt.err, "import failed")
			assert.Equal(t, tt.code, GetCode(err))
			assert.Equal(t, tt.status, HTTPStatus(GetCode(err)))
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.Nil(t, FromImportError(nil, "x"))
}

func TestFromImportError_KeepsAppError(t *testing.T) {
	orig := InvalidInput("bad id")
	assert.Same(t, orig, FromImportError(orig, "ignored"))
}

func TestWrap(t *testing.T) {
	base := DatabaseError("insert failed", stderrors.New("conn reset"))
	wrapped := Wrap(base, "save import")
	assert.Equal(t, CodeDatabaseError, GetCode(wrapped))
	assert.Equal(t, "save import: insert failed: conn reset", wrapped.Error())

	assert.Equal(t, CodeInternalError, GetCode(Wrap(stderrors.New("x"), "y")))
	assert.Nil(t, Wrap(nil, "y"))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeNotFound, GetCode(fmt.Errorf("ctx: %w", NotFound("import"))))
}

func TestWrapf(t *testing.T) {
	err := Wrapf(NotFound("import"), "load %s", "abc")
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "load abc: import not found", err.Error())
	assert.Nil(t, Wrapf(nil, "load %s", "abc"))
}

func TestWithCode(t *testing.T) {
	plain := stderrors.New("dial tcp: refused")
	err := WithCode(CodeDatabaseError, plain)
	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.ErrorIs(t, err, plain)

	recoded := WithCode(CodeInvalidInput, InternalError("bad"))
	assert.Equal(t, CodeInvalidInput, GetCode(recoded))
	assert.Equal(t, "bad", recoded.Error())
	assert.Nil(t, WithCode(CodeInvalidInput, nil))
}
