package submission

import (
	"errors"
	"net/http"

	"github.com/SlpAus/contest-hub-backend/internal/contest"
	"github.com/SlpAus/contest-hub-backend/internal/user"
	"github.com/gin-gonic/gin"
)

type submitRequest struct {
	ContestID string `json:"contestId" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

// SubmitHandler 记录一份新作品，提交人取自会话凭证。
func SubmitHandler(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "提交作品需要比赛ID和内容"})
		return
	}

	s, err := Submit(req.ContestID, user.PrincipalEmail(c), req.Content)
	if err != nil {
		if errors.Is(err, contest.ErrContestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "比赛不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "提交作品失败"})
		return
	}
	c.JSON(http.StatusCreated, s)
}

// ListByContestHandler 返回某个比赛收到的全部作品，仅限比赛创建者。
func ListByContestHandler(c *gin.Context) {
	contestID := c.Query("contestId")
	if contestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "缺少contestId参数"})
		return
	}

	submissions, err := ListByContest(contestID, user.PrincipalEmail(c))
	if err != nil {
		switch {
		case errors.Is(err, contest.ErrContestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "比赛不存在"})
		case errors.Is(err, contest.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "只有比赛创建者可以查看作品"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "查询作品列表失败"})
		}
		return
	}
	c.JSON(http.StatusOK, submissions)
}

// DeclareWinnerHandler 宣布一份作品获胜，仅限该作品所属比赛的创建者。
func DeclareWinnerHandler(c *gin.Context) {
	s, err := DeclareWinner(c.Param("id"), user.PrincipalEmail(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrSubmissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "作品不存在"})
		case errors.Is(err, contest.ErrContestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "比赛不存在"})
		case errors.Is(err, contest.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "只有比赛创建者可以宣布获胜者"})
		case errors.Is(err, ErrAlreadyDecided):
			c.JSON(http.StatusConflict, gin.H{"message": "该比赛已经宣布过获胜者"})
		case errors.Is(err, contest.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"message": "比赛尚未通过审核，无法宣布获胜者"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "宣布获胜者失败"})
		}
		return
	}
	c.JSON(http.StatusOK, s)
}
