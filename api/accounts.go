package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jerry-enebeli/purse/api/middleware"
	model2 "github.com/jerry-enebeli/purse/api/model"
)

func (a Api) OnboardOwner(c *gin.Context) {
	account, err := a.purse.OnboardOwner(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (a Api) CreateAccount(c *gin.Context) {
	var newAccount model2.CreateAccount
	if err := c.ShouldBindJSON(&newAccount); err != nil {
		badRequest(c, err)
		return
	}

	if err := newAccount.ValidateCreateAccount(); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := a.purse.CreateAccount(c.Request.Context(), middleware.OwnerID(c), newAccount.ToAccountType())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetAccounts(c *gin.Context) {
	accounts, err := a.purse.GetAccounts(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (a Api) GetAccount(c *gin.Context) {
	account, err := a.purse.GetAccount(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (a Api) DeactivateAccount(c *gin.Context) {
	account, err := a.purse.DeactivateAccount(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// GetTransactions pages through an account's history with the limit and
// offset query parameters.
func (a Api) GetTransactions(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		badRequest(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		badRequest(c, err)
		return
	}

	postings, err := a.purse.GetTransactions(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), limit, offset)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, postings)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
