package graph

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	appErrors "github.com/youngtech-edu/records-api/pkg/errors"
	"github.com/youngtech-edu/records-api/pkg/response"
)

// Handler serves the GraphQL endpoint.
type Handler struct {
	schema graphql.Schema
	logger *zap.Logger
}

// NewHandler constructs the GraphQL handler.
func NewHandler(schema graphql.Schema, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{schema: schema, logger: logger}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Execute runs a query or mutation against the schema. Resolver failures
// surface as GraphQL errors in the response body, not transport errors.
func (h *Handler) Execute(c *gin.Context) {
	var req graphqlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid graphql request"))
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        withRawVariables(c.Request.Context(), req.Variables),
	})

	if len(result.Errors) > 0 {
		h.logger.Warn("graphql request failed",
			zap.String("operation", req.OperationName),
			zap.Any("errors", result.Errors),
		)
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, result)
}
