package service

import (
	"context"
	"testing"

	"jobboard/internal/models"
	"jobboard/internal/observability"
	"jobboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("service-test")
	t.Cleanup(func() { observability.Tracer = prev })
	return recorder
}

func spanStatuses(recorder *tracetest.SpanRecorder) map[string][]codes.Code {
	out := map[string][]codes.Code{}
	for _, s := range recorder.Ended() {
		out[s.Name()] = append(out[s.Name()], s.Status().Code)
	}
	return out
}

func TestAuthSpans(t *testing.T) {
	recorder := recordSpans(t)
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, registerInput("dana@example.com"))
	require.NoError(t, err)
	_, err = f.auth.Login(ctx, LoginInput{Email: "dana@example.com", Password: "wrong-Passw0rd1234!"})
	requireCode(t, err, models.CodeInvalidCredentials)

	spans := spanStatuses(recorder)
	assert.Equal(t, []codes.Code{codes.Unset}, spans["auth.register"])
	assert.Equal(t, []codes.Code{codes.Error}, spans["auth.login"])
}

func TestApplySpans(t *testing.T) {
	recorder := recordSpans(t)
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "owner@example.com", models.RoleEmployer)
	seeker := testutil.CreateUser(t, f.db, "seeker@example.com", models.RoleJobSeeker)
	company := testutil.CreateCompany(t, f.db, "Acme", owner.ID)
	job := testutil.CreateJob(t, f.db, "Backend", company.ID, owner.ID)

	_, err := f.jobSvc.Apply(ctx, actorOf(seeker), job.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = f.jobSvc.Apply(ctx, actorOf(seeker), job.ID, ApplyInput{})
	requireCode(t, err, models.CodeAlreadyApplied)

	assert.Equal(t, []codes.Code{codes.Unset, codes.Error}, spanStatuses(recorder)["jobs.apply"])
}
