package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bambinounos/psicoeval/internal/models"
)

// EmailService is a placeholder for a real email sending service.
type EmailService struct {
	log           *zap.Logger
	publicBaseURL string
}

func NewEmailService(log *zap.Logger, publicBaseURL string) *EmailService {
	return &EmailService{log: log, publicBaseURL: publicBaseURL}
}

// EvaluationLink builds the single-use candidate URL for an evaluation.
func (s *EmailService) EvaluationLink(eval *models.Evaluation) string {
	return fmt.Sprintf("%s/evaluar/%s", strings.TrimRight(s.publicBaseURL, "/"), eval.Token)
}

// SendInvitation simulates sending the invitation email with the access link.
func (s *EmailService) SendInvitation(eval *models.Evaluation) {
	link := s.EvaluationLink(eval)
	s.log.Info("Sending evaluation invitation",
		zap.String("to", eval.Email),
		zap.String("candidate", eval.FullName),
	)
	// In a real application, you would use an SMTP client like go-mail
	// to send a templated HTML email here.
	fmt.Printf("--- SIMULATING EMAIL ---\nTo: %s\nSubject: Invitación a evaluación psicométrica\nHola %s,\nHas sido invitado/a a completar una evaluación. El enlace vence el %s.\n%s\n\n",
		eval.Email, eval.FullName, eval.ExpiresAt.Format("02/01/2006 15:04"), link)
}
