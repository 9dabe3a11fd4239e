package controller

import (
	"errors"
	"net/http"

	"brainbee_backend/internal/config"
	"brainbee_backend/internal/middleware"
	"brainbee_backend/internal/service"
	"brainbee_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuizController serves the browser client: the quiz page and the three
// quiz operations. Responses are bare JSON in the shape the embedded page
// expects; client errors use {"error": ...}.
type QuizController struct {
	quizService *service.QuizService
	cfg         *config.Config
}

func NewQuizController(quizService *service.QuizService, cfg *config.Config) *QuizController {
	return &QuizController{quizService: quizService, cfg: cfg}
}

// @Summary 测验页面
// @Description 渲染单页客户端，带当前会话的进度
// @Produce html
// @Router / [get]
func (c *QuizController) Index(ctx *gin.Context) {
	session := c.quizService.Load(ctx.Request.Context(), middleware.SessionID(ctx))
	middleware.IssueSessionCookie(ctx, c.cfg, session.SessionID)

	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"Score":         session.Score,
		"TotalAnswered": session.TotalAnswered,
		"HistoryCount":  len(session.History),
	})
}

// @Summary 生成新题目
// @Description 按分类生成一道选择题并设为会话的当前题目
// @Accept x-www-form-urlencoded
// @Produce json
// @Param category formData string false "题目分类，空或 random 表示随机"
// @Router /new_question [post]
func (c *QuizController) NewQuestion(ctx *gin.Context) {
	category := ctx.PostForm("category")

	session, question, err := c.quizService.NewQuestion(ctx.Request.Context(), middleware.SessionID(ctx), category)
	if err != nil {
		util.ClientError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	middleware.IssueSessionCookie(ctx, c.cfg, session.SessionID)

	// never leak the correct answer with an active question
	ctx.JSON(http.StatusOK, gin.H{
		"question": question.Text,
		"choices":  question.Choices,
		"category": question.Category,
	})
}

// @Summary 提交答案
// @Description 判定当前题目的答案，更新会话历史与计数
// @Accept x-www-form-urlencoded
// @Produce json
// @Param answer formData string true "所选选项，A-D"
// @Router /update [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	answer := ctx.PostForm("answer")

	session, rec, err := c.quizService.SubmitAnswer(ctx.Request.Context(), middleware.SessionID(ctx), answer)
	switch {
	case errors.Is(err, util.ErrInvalidAnswer):
		util.ClientError(ctx, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, util.ErrNoActiveQuestion):
		util.ClientError(ctx, http.StatusConflict, err.Error())
		return
	}

	middleware.IssueSessionCookie(ctx, c.cfg, session.SessionID)

	ctx.JSON(http.StatusOK, gin.H{
		"feedback":       rec.Feedback,
		"correct":        rec.Correct,
		"score":          session.Score,
		"total_answered": session.TotalAnswered,
	})
}

// @Summary 答题历史
// @Description 返回会话的答题记录（受存储截断策略约束）
// @Produce json
// @Router /review_history [get]
func (c *QuizController) ReviewHistory(ctx *gin.Context) {
	session, history := c.quizService.History(ctx.Request.Context(), middleware.SessionID(ctx))
	middleware.IssueSessionCookie(ctx, c.cfg, session.SessionID)

	ctx.JSON(http.StatusOK, gin.H{
		"history": history,
		"score":   session.Score,
		"total":   session.TotalAnswered,
	})
}
