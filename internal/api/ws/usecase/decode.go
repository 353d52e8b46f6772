package wsUsecase

import (
	"encoding/json"
	"fmt"

	"quiz-service/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decode unmarshals data into R and validates it. Every failure is reported
// as domain.ErrInvalidInput.
func decode[R any](data json.RawMessage) (*R, error) {
	var req R
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return &req, nil
}
