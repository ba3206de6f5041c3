package errors

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	NotFound   bool   `json:"not_found,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}

// constraint phrases emitted by the storage engines we support. sqlite spells
// them in uppercase; postgres drivers lowercase with the word "violates".
var constraintPhrases = []string{
	"UNIQUE constraint failed",
	"FOREIGN KEY constraint failed",
	"NOT NULL constraint failed",
	"violates unique constraint",
	"violates foreign key constraint",
	"violates not-null constraint",
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		d.NotFound = true
	}

	msg := err.Error()
	for _, phrase := range constraintPhrases {
		if strings.Contains(msg, phrase) {
			d.Constraint = phrase
			break
		}
	}

	return d
}
