package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmkornilov/chessbot/internal/dao"
	"github.com/gmkornilov/chessbot/internal/referee"
	"github.com/google/go-github/v62/github"
	"github.com/rs/zerolog"
)

type Judge interface {
	Judge(ctx context.Context, pr referee.PullRequest) (referee.Outcome, error)
}

type WebhookApi struct {
	Judge  Judge
	secret []byte
}

func NewWebhookApi(judge Judge, secret string) *WebhookApi {
	return &WebhookApi{
		Judge:  judge,
		secret: []byte(secret),
	}
}

func (w *WebhookApi) Webhook(ctx *gin.Context) {
	log := zerolog.Ctx(ctx.Request.Context())

	payload, err := github.ValidatePayload(ctx.Request, w.secret)
	if err != nil {
		log.Warn().Err(err).Msg("rejected webhook payload")
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid signature",
		})
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(ctx.Request), payload)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	prEvent, ok := event.(*github.PullRequestEvent)
	if !ok || !judged(prEvent.GetAction()) {
		ctx.JSON(http.StatusAccepted, gin.H{
			"outcome": referee.Ignored,
		})
		return
	}

	outcome, err := w.Judge.Judge(ctx.Request.Context(), pullRequest(prEvent))
	if err != nil {
		log.Error().Err(err).Int("pr", prEvent.GetNumber()).Msg("judging failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"outcome": outcome,
	})
}

func (w *WebhookApi) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func judged(action string) bool {
	return action == "opened" || action == "reopened"
}

func pullRequest(e *github.PullRequestEvent) referee.PullRequest {
	base := e.GetPullRequest().GetBase()
	return referee.PullRequest{
		PullRequestRef: dao.PullRequestRef{
			Repo: dao.Repo{
				Owner: base.GetRepo().GetOwner().GetLogin(),
				Name:  base.GetRepo().GetName(),
			},
			Number: e.GetNumber(),
		},
		BaseRef:       base.GetRef(),
		DefaultBranch: base.GetRepo().GetDefaultBranch(),
		HeadSHA:       e.GetPullRequest().GetHead().GetSHA(),
	}
}
