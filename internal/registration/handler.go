package registration

import (
	"errors"
	"net/http"

	"github.com/SlpAus/contest-hub-backend/internal/contest"
	"github.com/SlpAus/contest-hub-backend/internal/user"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	ContestID string  `json:"contestId" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// RegisterHandler 处理报名加付款请求，付款人取自会话凭证。
func RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "报名需要比赛ID和大于0的金额"})
		return
	}

	payment, err := Register(req.ContestID, user.PrincipalEmail(c), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, contest.ErrContestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "比赛不存在"})
		case errors.Is(err, ErrContestNotJoinable):
			c.JSON(http.StatusForbidden, gin.H{"message": "比赛当前不可报名"})
		case errors.Is(err, ErrDuplicateRegistration):
			c.JSON(http.StatusConflict, gin.H{"message": "已经报名过该比赛"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "报名失败"})
		}
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// ListMyPaymentsHandler 返回当前用户的全部报名记录。
func ListMyPaymentsHandler(c *gin.Context) {
	payments, err := ListPaymentsByUser(user.PrincipalEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "查询报名记录失败"})
		return
	}
	c.JSON(http.StatusOK, payments)
}
