/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// Package operation exposes the gateway over HTTP. Routes keep the original
// application's paths and wire shapes: JSON envelopes for programmatic
// callers and rendered HTML fragments for interactive ones.
package operation

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/simpleasset/gateway/pkg/auth"
	"github.com/simpleasset/gateway/pkg/enroll"
	"github.com/simpleasset/gateway/pkg/format"
	"github.com/simpleasset/gateway/pkg/ledger"
)

// Enrollment modes carried in the POST /user body.
const (
	modeEnroll   = 1
	modeRegister = 2
)

type enroller interface {
	Enroll(ctx context.Context, label, secret string) error
	Register(ctx context.Context, req *enroll.RegistrationRequest, adminLabel string) error
}

type executor interface {
	Submit(ctx context.Context, label, fn string, args ...string) (*ledger.Ack, error)
	Evaluate(ctx context.Context, label, fn string, args ...string) ([]byte, error)
	History(ctx context.Context, label, key string) ([]ledger.TransactionRecord, error)
}

type accounts interface {
	Signup(ctx context.Context, id, pw, pwc string) error
	Login(ctx context.Context, id, pw string) (string, error)
}

// Config collects the controller's collaborators.
type Config struct {
	Enroller    enroller
	Executor    executor
	Accounts    accounts
	Renderer    *format.Renderer
	Affiliation string
	AdminLabel  string
	CallTimeout time.Duration
	TokenTTL    time.Duration
	Logger      *zap.Logger
}

// Controller handles the gateway routes.
type Controller struct {
	enroller    enroller
	executor    executor
	accounts    accounts
	renderer    *format.Renderer
	affiliation string
	adminLabel  string
	callTimeout time.Duration
	tokenTTL    time.Duration
	logger      *zap.Logger
}

// NewController builds the route controller.
func NewController(cfg *Config) *Controller {
	return &Controller{
		enroller:    cfg.Enroller,
		executor:    cfg.Executor,
		accounts:    cfg.Accounts,
		renderer:    cfg.Renderer,
		affiliation: cfg.Affiliation,
		adminLabel:  cfg.AdminLabel,
		callTimeout: cfg.CallTimeout,
		tokenTTL:    cfg.TokenTTL,
		logger:      cfg.Logger.Named("restapi"),
	}
}

// Register attaches the routes to e.
func (c *Controller) Register(e *echo.Echo) {
	e.POST("/user", c.PostUser)
	e.POST("/asset", c.PostAsset)
	e.GET("/asset", c.GetAsset)
	e.GET("/assets", c.GetAssetHistory)
	e.POST("/tx", c.PostTransfer)
	e.POST("/signup", c.PostSignup)
	e.POST("/login", c.PostLogin)
	e.GET("/logout", c.GetLogout)
}

func (c *Controller) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.callTimeout)
}

type userRequest struct {
	Mode int    `json:"mode" form:"mode"`
	ID   string `json:"id" form:"id"`
	PW   string `json:"pw" form:"pw"`
	Role string `json:"role" form:"role"`
}

// PostUser provisions identities: mode 1 bootstrap-enrolls with an
// enrollment secret, mode 2 registers-and-enrolls under the admin identity.
func (c *Controller) PostUser(e echo.Context) error {
	var req userRequest
	if err := e.Bind(&req); err != nil {
		return badRequest(e, "invalid request body")
	}
	if req.ID == "" {
		return badRequest(e, "id is required")
	}

	ctx, cancel := c.opContext(e.Request().Context())
	defer cancel()

	switch req.Mode {
	case modeEnroll:
		if req.PW == "" {
			return badRequest(e, "pw is required")
		}
		if err := c.enroller.Enroll(ctx, req.ID, req.PW); err != nil {
			return c.jsonError(e, err)
		}
		return e.JSON(http.StatusOK, format.Success("Successfully enrolled user "+req.ID+" and imported it into the wallet"))

	case modeRegister:
		if req.Role == "" {
			return badRequest(e, "role is required")
		}
		if err := c.enroller.Register(ctx, &enroll.RegistrationRequest{
			Label:       req.ID,
			Role:        req.Role,
			Affiliation: c.affiliation,
		}, c.adminLabel); err != nil {
			return c.jsonError(e, err)
		}
		return e.JSON(http.StatusOK, format.Success("Successfully registered and enrolled user "+req.ID+" and imported it into the wallet"))

	default:
		return badRequest(e, "unsupported mode")
	}
}

type assetRequest struct {
	ID    string `json:"id" form:"id"`
	Key   string `json:"key" form:"key"`
	Value string `json:"value" form:"value"`
}

// PostAsset submits a `set` transaction and renders the acknowledgment page.
func (c *Controller) PostAsset(e echo.Context) error {
	var req assetRequest
	if err := e.Bind(&req); err != nil {
		return badRequest(e, "invalid request body")
	}
	if req.ID == "" || req.Key == "" {
		return badRequest(e, "id and key are required")
	}

	ctx, cancel := c.opContext(e.Request().Context())
	defer cancel()

	if _, err := c.executor.Submit(ctx, req.ID, "set", req.Key, req.Value); err != nil {
		return c.htmlError(e, err)
	}

	return c.htmlMessage(e, "Transaction has been submitted")
}

// GetAsset evaluates `get` and returns the contract's JSON verbatim.
func (c *Controller) GetAsset(e echo.Context) error {
	id := e.QueryParam("id")
	key := e.QueryParam("key")
	if id == "" || key == "" {
		return badRequest(e, "id and key are required")
	}

	ctx, cancel := c.opContext(e.Request().Context())
	defer cancel()

	payload, err := c.executor.Evaluate(ctx, id, "get", key)
	if err != nil {
		return c.jsonError(e, err)
	}

	return e.JSONBlob(http.StatusOK, payload)
}

// GetAssetHistory evaluates `history` and renders the record table.
func (c *Controller) GetAssetHistory(e echo.Context) error {
	id := e.QueryParam("id")
	key := e.QueryParam("key")
	if id == "" || key == "" {
		return badRequest(e, "id and key are required")
	}

	ctx, cancel := c.opContext(e.Request().Context())
	defer cancel()

	records, err := c.executor.History(ctx, id, key)
	if err != nil {
		return c.htmlError(e, err)
	}

	page, err := c.renderer.History(key, records)
	if err != nil {
		return err
	}
	return e.HTML(http.StatusOK, page)
}

type transferRequest struct {
	ID    string `json:"id" form:"id"`
	From  string `json:"from" form:"from"`
	To    string `json:"to" form:"to"`
	Value string `json:"value" form:"value"`
}

// PostTransfer submits a `transfer` transaction.
func (c *Controller) PostTransfer(e echo.Context) error {
	var req transferRequest
	if err := e.Bind(&req); err != nil {
		return badRequest(e, "invalid request body")
	}
	if req.ID == "" || req.From == "" || req.To == "" || req.Value == "" {
		return badRequest(e, "id, from, to and value are required")
	}

	ctx, cancel := c.opContext(e.Request().Context())
	defer cancel()

	if _, err := c.executor.Submit(ctx, req.ID, "transfer", req.From, req.To, req.Value); err != nil {
		return c.htmlError(e, err)
	}

	return c.htmlMessage(e, "Transaction has been submitted")
}

type signupRequest struct {
	ID  string `json:"id" form:"id"`
	PW  string `json:"pw" form:"pw"`
	PWC string `json:"pwc" form:"pwc"`
}

// PostSignup creates a web account.
func (c *Controller) PostSignup(e echo.Context) error {
	var req signupRequest
	if err := e.Bind(&req); err != nil {
		return badRequest(e, "invalid request body")
	}

	ctx, cancel := c.opContext(e.Request().Context())
	defer cancel()

	if err := c.accounts.Signup(ctx, req.ID, req.PW, req.PWC); err != nil {
		if auth.IsAccountConflict(err) {
			return e.JSON(http.StatusConflict, format.Error(err))
		}
		return badRequest(e, err.Error())
	}

	return e.JSON(http.StatusOK, format.Success("You have just created your new account!"))
}

type loginRequest struct {
	ID string `json:"id" form:"id"`
	PW string `json:"pw" form:"pw"`
}

// PostLogin checks credentials and sets the session cookie.
func (c *Controller) PostLogin(e echo.Context) error {
	var req loginRequest
	if err := e.Bind(&req); err != nil {
		return badRequest(e, "invalid request body")
	}

	ctx, cancel := c.opContext(e.Request().Context())
	defer cancel()

	token, err := c.accounts.Login(ctx, req.ID, req.PW)
	if err != nil {
		return e.JSON(http.StatusUnauthorized, format.Error(err))
	}

	e.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.tokenTTL.Seconds()),
		HttpOnly: true,
	})
	return e.JSON(http.StatusOK, format.Success("logged in"))
}

// GetLogout clears the session cookie.
func (c *Controller) GetLogout(e echo.Context) error {
	e.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return e.NoContent(http.StatusOK)
}

func (c *Controller) jsonError(e echo.Context, err error) error {
	c.logger.Warn("operation failed", zap.String("path", e.Path()), zap.Error(err))
	return e.JSON(format.StatusOf(err), format.Error(err))
}

func (c *Controller) htmlError(e echo.Context, err error) error {
	c.logger.Warn("operation failed", zap.String("path", e.Path()), zap.Error(err))
	page, renderErr := c.renderer.Message(err.Error())
	if renderErr != nil {
		return renderErr
	}
	return e.HTML(format.StatusOf(err), page)
}

func (c *Controller) htmlMessage(e echo.Context, text string) error {
	page, err := c.renderer.Message(text)
	if err != nil {
		return err
	}
	return e.HTML(http.StatusOK, page)
}

func badRequest(e echo.Context, msg string) error {
	return e.JSON(http.StatusBadRequest, format.ErrorBody{Message: msg})
}
