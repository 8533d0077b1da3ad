package contest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/contest-hub-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// --- 请求模型 ---

type contestContentRequest struct {
	Name        string    `json:"name" binding:"required"`
	Type        string    `json:"type" binding:"required"`
	Prize       string    `json:"prize" binding:"required"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

type updateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

func (r contestContentRequest) toContent() ContestContent {
	return ContestContent{
		Name:        r.Name,
		Type:        r.Type,
		Prize:       r.Prize,
		Description: r.Description,
		Deadline:    r.Deadline,
	}
}

// writeServiceError 把服务层哨兵错误映射为HTTP响应。
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrContestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "比赛不存在"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "没有操作该比赛的权限"})
	case errors.Is(err, ErrNotEditable):
		c.JSON(http.StatusForbidden, gin.H{"message": "比赛已进入审核后状态，无法修改"})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": "非法的比赛状态迁移"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "服务器内部错误"})
	}
}

// --- 控制器函数 ---

// ListContestsHandler 返回公开可见的比赛列表。
// 搭配OptionalAuth使用：创建者查询自己的比赛时可以看到全部状态。
func ListContestsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	q := ListQuery{
		Search:       c.Query("search"),
		Sort:         c.Query("sort"),
		CreatorEmail: c.Query("creatorEmail"),
		Limit:        limit,
		ViewerEmail:  user.PrincipalEmail(c),
	}

	contests, err := ListContests(q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "查询比赛列表失败"})
		return
	}
	c.JSON(http.StatusOK, contests)
}

// ListContestsForAdminHandler 返回全部比赛，支持显式状态过滤。仅限管理员。
func ListContestsForAdminHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	contests, err := ListContestsForAdmin(Status(c.Query("status")), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "查询比赛列表失败"})
		return
	}
	c.JSON(http.StatusOK, contests)
}

// GetContestHandler 返回单个比赛。
func GetContestHandler(c *gin.Context) {
	contest, err := GetContestByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "查询比赛失败"})
		return
	}
	if contest == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "比赛不存在"})
		return
	}
	c.JSON(http.StatusOK, contest)
}

// CreateContestHandler 创建一个新比赛，状态强制为pending。
func CreateContestHandler(c *gin.Context) {
	var req contestContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "比赛名称、类型和奖品为必填项"})
		return
	}

	contest, err := CreateContest(user.PrincipalEmail(c), req.toContent())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "创建比赛失败"})
		return
	}
	c.JSON(http.StatusCreated, contest)
}

// UpdateContestHandler 修改比赛内容，只允许创建者在pending状态下操作。
func UpdateContestHandler(c *gin.Context) {
	var req contestContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "比赛名称、类型和奖品为必填项"})
		return
	}

	contest, err := UpdateContest(c.Param("id"), user.PrincipalEmail(c), req.toContent())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contest)
}

// DeleteContestHandler 删除比赛：创建者限pending状态，管理员不限。
func DeleteContestHandler(c *gin.Context) {
	// 管理员身份需要确认最新角色，不能只看凭证声明
	isAdmin := false
	if user.PrincipalRole(c) == string(user.RoleAdmin) {
		u, err := user.GetUserByEmail(user.PrincipalEmail(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "查询用户信息失败"})
			return
		}
		isAdmin = u != nil && u.Role == user.RoleAdmin
	}

	if err := DeleteContest(c.Param("id"), user.PrincipalEmail(c), isAdmin); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateStatusHandler 执行管理员审核（approve/reject）。仅限管理员。
func UpdateStatusHandler(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "请求缺少状态参数"})
		return
	}

	if err := UpdateStatus(c.Param("id"), req.Status); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
