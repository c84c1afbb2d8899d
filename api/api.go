/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jerry-enebeli/purse"
	"github.com/jerry-enebeli/purse/api/middleware"
	"github.com/jerry-enebeli/purse/config"
	"github.com/jerry-enebeli/purse/internal/apierror"
	"github.com/jerry-enebeli/purse/rates"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Api struct {
	purse  *purse.Purse
	router *gin.Engine
}

// Router registers the banking routes. Every route except the rate sheet acts
// on behalf of the owner named in X-Purse-Owner.
func (a Api) Router() *gin.Engine {
	router := a.router
	router.GET("/rates", a.GetRates)

	owned := router.Group("/", middleware.OwnerMiddleware())
	owned.POST("/owners/onboard", a.OnboardOwner)

	owned.POST("/accounts", a.CreateAccount)
	owned.GET("/accounts", a.GetAccounts)
	owned.GET("/accounts/:id", a.GetAccount)
	owned.DELETE("/accounts/:id", a.DeactivateAccount)
	owned.GET("/accounts/:id/transactions", a.GetTransactions)

	owned.POST("/deposits", a.Deposit)
	owned.POST("/withdrawals", a.Withdraw)
	owned.POST("/transfers", a.Transfer)
	owned.POST("/bills/pay", a.PayBill)
	owned.GET("/transactions/:id", a.GetTransaction)

	owned.GET("/dashboard", a.GetDashboard)

	owned.POST("/loans", a.ApplyForLoan)
	owned.GET("/loans", a.GetLoans)
	owned.POST("/investments", a.CreateInvestment)
	owned.GET("/investments", a.GetInvestments)

	// back office, guarded by the secret key only
	router.PUT("/loans/:id/decision", a.DecideLoan)
	return a.router
}

func NewAPI(p *purse.Purse) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.EnableTelemetry {
		r.Use(otelgin.Middleware(conf.ProjectName))
	}
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{purse: p, router: r}
}

func (a Api) GetRates(c *gin.Context) {
	c.JSON(http.StatusOK, rates.Sheet())
}

// respondWithError renders an engine error with its mapped status code.
func respondWithError(c *gin.Context, err error) {
	apiErr := apierror.FromError(err)
	c.JSON(apierror.MapErrorToHTTPStatus(apiErr), gin.H{"error": apiErr.Message, "code": apiErr.Code})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": apierror.ErrBadRequest})
}
