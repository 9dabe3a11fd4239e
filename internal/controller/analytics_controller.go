package controller

import (
	"errors"
	"net/http"

	"brainbee_backend/internal/model"
	"brainbee_backend/internal/service"
	"brainbee_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	feedbackService *service.FeedbackService
}

func NewAnalyticsController(feedbackService *service.FeedbackService) *AnalyticsController {
	return &AnalyticsController{feedbackService: feedbackService}
}

// @Summary 答题统计
// @Description 所有反馈记录的总体与分类正确率
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/analytics [get]
func (c *AnalyticsController) GetAnalytics(ctx *gin.Context) {
	report, err := c.feedbackService.Analytics(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, util.ErrRemoteDisabled) {
			util.Error(ctx, http.StatusServiceUnavailable, "no analytics sink configured")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}

// @Summary 分类表现
// @Description 单个分类的正确率与最近五条反馈
// @Produce json
// @Param category path string true "分类名"
// @Success 200 {object} util.Response
// @Router /api/analytics/category/{category} [get]
func (c *AnalyticsController) GetCategoryPerformance(ctx *gin.Context) {
	category := ctx.Param("category")
	if !model.IsValidCategory(category) {
		util.BadRequest(ctx, util.ErrInvalidCategory.Error())
		return
	}

	perf, err := c.feedbackService.CategoryPerformance(ctx.Request.Context(), category)
	if err != nil {
		if errors.Is(err, util.ErrRemoteDisabled) {
			util.Error(ctx, http.StatusServiceUnavailable, "no analytics sink configured")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, perf)
}

// @Summary 分类列表
// @Description 可用的题目分类
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/categories [get]
func (c *AnalyticsController) GetCategories(ctx *gin.Context) {
	util.Success(ctx, model.Categories)
}
