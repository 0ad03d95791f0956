package product

import (
	"context"

	"smartband-store/internal/domain"
)

func int64Ptr(v int64) *int64 { return &v }

// DefaultCatalog is the storefront's built-in package list.
func DefaultCatalog() []domain.Product {
	return []domain.Product{
		{
			ID:            "new-user-package",
			Name:          "پکیج کاربران جدید",
			Price:         2400000,
			OriginalPrice: int64Ptr(3000000),
			Description:   "مچ‌بند هوشمند کامل با اشتراک ۱۲ ماهه و ۶ ماه هدیه",
			Features: []string{
				"مچ‌بند هوشمند کامل",
				"اشتراک ۱۲ ماهه کامل",
				"۶ ماه اشتراک رایگان",
				"پشتیبانی ۲۴ ساعته",
				"آموزش کامل نصب",
				"گارانتی ۱ ساله",
			},
			Image:    "https://images.pexels.com/photos/393047/pexels-photo-393047.jpeg?auto=compress&cs=tinysrgb&w=600",
			Category: domain.CategoryNewUser,
			Badge:    "پکیج شروع ویژه",
		},
		{
			ID:            "existing-user-package",
			Name:          "تمدید اشتراک ۱۲ ماهه",
			Price:         1000000,
			OriginalPrice: int64Ptr(1200000),
			Description:   "تمدید اشتراک برای کاربران فعلی با ۲۰٪ تخفیف",
			Features: []string{
				"تمام امکانات پریمیوم",
				"پشتیبانی اولویت‌دار",
				"آپدیت‌های رایگان",
				"پایش نامحدود کاربران",
				"گزارش‌های تفصیلی",
				"پشتیبان‌گیری ابری",
			},
			Image:    "https://images.pexels.com/photos/147413/twitter-facebook-together-exchange-147413.jpeg?auto=compress&cs=tinysrgb&w=600",
			Category: domain.CategoryExistingUser,
			Badge:    "محبوب",
		},
	}
}

type staticRepo struct {
	products []domain.Product
}

// NewStatic serves a fixed product list from memory.
func NewStatic(products []domain.Product) Repository {
	cp := make([]domain.Product, len(products))
	for i, p := range products {
		cp[i] = p.Clone()
	}
	return &staticRepo{products: cp}
}

func (r *staticRepo) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(r.products))
	for i, p := range r.products {
		out[i] = p.Clone()
	}
	return out, nil
}

func (r *staticRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			c := p.Clone()
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}
