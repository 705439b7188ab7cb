package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"TradeStage/internal/domain/models"
	xhttp "TradeStage/pkg/http"
)

// ruleStatus maps rule violations to HTTP statuses. Malformed input is a
// 400; inputs that are well-formed but break a stage rule are a 422.
var ruleStatus = map[models.RuleKind]int{
	models.RuleInvalidBalance: http.StatusBadRequest,
	models.RuleUnknownStage:   http.StatusBadRequest,
	models.RuleInvalidConfig:  http.StatusBadRequest,
}

func ruleErrorResponse(c echo.Context, err error) error {
	var re *models.RuleError
	if errors.As(err, &re) {
		status, ok := ruleStatus[re.Kind]
		if !ok {
			status = http.StatusUnprocessableEntity
		}
		return xhttp.AppErrorResponse(c, xhttp.NewAppError(string(re.Kind), "", re.Message, status))
	}
	return xhttp.AppErrorResponse(c, err)
}
