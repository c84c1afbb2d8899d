package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jerry-enebeli/purse/api/middleware"
	model2 "github.com/jerry-enebeli/purse/api/model"
)

func (a Api) ApplyForLoan(c *gin.Context) {
	var application model2.ApplyForLoan
	if err := c.ShouldBindJSON(&application); err != nil {
		badRequest(c, err)
		return
	}
	if err := application.ValidateApplyForLoan(); err != nil {
		badRequest(c, err)
		return
	}

	loan, err := a.purse.ApplyForLoan(c.Request.Context(), middleware.OwnerID(c), application.ToLoanApplication())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

func (a Api) GetLoans(c *gin.Context) {
	loans, err := a.purse.GetLoans(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, loans)
}

func (a Api) DecideLoan(c *gin.Context) {
	var decision model2.DecideLoan
	if err := c.ShouldBindJSON(&decision); err != nil {
		badRequest(c, err)
		return
	}
	if err := decision.ValidateDecideLoan(); err != nil {
		badRequest(c, err)
		return
	}

	loan, err := a.purse.DecideLoan(c.Request.Context(), c.Param("id"), *decision.Approve)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (a Api) CreateInvestment(c *gin.Context) {
	var investment model2.CreateInvestment
	if err := c.ShouldBindJSON(&investment); err != nil {
		badRequest(c, err)
		return
	}
	if err := investment.ValidateCreateInvestment(); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := a.purse.CreateInvestment(c.Request.Context(), middleware.OwnerID(c), investment.ToInvestmentRequest())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetInvestments(c *gin.Context) {
	investments, err := a.purse.GetInvestments(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, investments)
}
