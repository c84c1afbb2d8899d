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
	"github.com/jerry-enebeli/purse/api/middleware"
	model2 "github.com/jerry-enebeli/purse/api/model"
)

// Deposit credits one of the caller's accounts.
//
// Responses:
// - 400 Bad Request: malformed body or invalid amount.
// - 404 Not Found: the account is unknown, inactive or owned by someone else.
// - 409 Conflict: the reference was already used.
// - 201 Created: the new balance and the posting.
func (a Api) Deposit(c *gin.Context) {
	var deposit model2.RecordDeposit
	if err := c.ShouldBindJSON(&deposit); err != nil {
		badRequest(c, err)
		return
	}
	if err := deposit.ValidateRecordDeposit(); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := a.purse.Deposit(c.Request.Context(), middleware.OwnerID(c), deposit.ToDepositRequest())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Withdraw debits one of the caller's accounts. Overdrawing answers 422.
func (a Api) Withdraw(c *gin.Context) {
	var withdrawal model2.RecordWithdrawal
	if err := c.ShouldBindJSON(&withdrawal); err != nil {
		badRequest(c, err)
		return
	}
	if err := withdrawal.ValidateRecordWithdrawal(); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := a.purse.Withdraw(c.Request.Context(), middleware.OwnerID(c), withdrawal.ToWithdrawalRequest())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Transfer moves money from one of the caller's accounts to any active account
// addressed by its number.
func (a Api) Transfer(c *gin.Context) {
	var transfer model2.RecordTransfer
	if err := c.ShouldBindJSON(&transfer); err != nil {
		badRequest(c, err)
		return
	}
	if err := transfer.ValidateRecordTransfer(); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := a.purse.Transfer(c.Request.Context(), middleware.OwnerID(c), transfer.ToTransferRequest())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) PayBill(c *gin.Context) {
	var bill model2.PayBill
	if err := c.ShouldBindJSON(&bill); err != nil {
		badRequest(c, err)
		return
	}
	if err := bill.ValidatePayBill(); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := a.purse.PayBill(c.Request.Context(), middleware.OwnerID(c), bill.ToBillPaymentRequest())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetDashboard(c *gin.Context) {
	summary, err := a.purse.DashboardSummary(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetTransaction returns the caller's postings of one transaction.
//
// Responses:
// - 404 Not Found: the transaction is unknown or touches none of the caller's accounts.
// - 200 OK: the postings.
func (a Api) GetTransaction(c *gin.Context) {
	postings, err := a.purse.GetTransaction(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, postings)
}
