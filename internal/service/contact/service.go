package contact

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"smartband-store/internal/domain"
	contactrepo "smartband-store/internal/repository/contact"
	"smartband-store/internal/validation"
)

// SuccessMessage is shown after a message is accepted.
const SuccessMessage = "پیام شما با موفقیت ارسال شد. در اسرع وقت با شما تماس خواهیم گرفت."

// Subjects lists the selectable topics in display order.
var Subjects = []string{
	"سوال عمومی",
	"پشتیبانی فنی",
	"مشکل محصول",
	"درخواست مشاوره",
	"همکاری تجاری",
	"سایر موارد",
}

type Input struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,looseemail"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" validate:"required,contactsubject"`
	Message string `json:"message" validate:"required"`
}

var messages = validation.Messages{
	"name.required":          "نام الزامی است",
	"email.required":         "ایمیل الزامی است",
	"email.looseemail":       "فرمت ایمیل صحیح نیست",
	"subject.required":       "موضوع الزامی است",
	"subject.contactsubject": "موضوع انتخاب شده معتبر نیست",
	"message.required":       "متن پیام الزامی است",
}

type Service struct {
	repo      contactrepo.Repository
	validator *validation.Validator
	delay     time.Duration
	logger    *slog.Logger
}

func New(repo contactrepo.Repository, delay time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	v := validation.New()
	v.MustRegister("contactsubject", func(fl validator.FieldLevel) bool {
		return isSubject(fl.Field().String())
	})
	return &Service{repo: repo, validator: v, delay: delay, logger: logger}
}

func isSubject(s string) bool {
	for _, subj := range Subjects {
		if subj == s {
			return true
		}
	}
	return false
}

// Submit validates and stores a message after the simulated send delay.
func (s *Service) Submit(ctx context.Context, in Input) (*domain.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	if err := s.validator.Struct(in, messages); err != nil {
		return nil, err
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	msg, err := s.repo.Create(ctx, domain.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		s.logger.Error("store contact message failed", "err", err)
		return nil, err
	}
	return msg, nil
}
