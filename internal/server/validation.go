package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"sketch-imprint/internal/game"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = engine.RegisterValidation("name", func(fl validator.FieldLevel) bool {
			_, err := game.ValidateName(fl.Field().String())
			return err == nil
		})
	})
}

// bindError turns a decode or validation failure into the client's reply.
// Only the first failing field is reported.
func bindError(op game.Op, err error) response {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return clientError(op, "malformed message")
	}
	verr := verrs[0]
	vote := op == game.OpSubmitVote
	switch tag := verr.Tag(); {
	case vote && tag == "min":
		return clientError(op, game.CodeInvalidVoteAmount.Reason())
	case vote && tag == "max":
		return clientError(op, game.CodeMaximumVotesExceeded.Reason())
	case tag == "name":
		return clientError(op, game.CodeInvalidName.Reason())
	case tag == "required":
		return clientError(op, fmt.Sprintf("%s is required", verr.Field()))
	default:
		return clientError(op, fmt.Sprintf("%s is invalid", verr.Field()))
	}
}
