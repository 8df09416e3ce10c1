package domain

import "testing"

func TestValidSlug(t *testing.T) {
	t.Parallel()

	valid := []string{"faq-1", "a", "0", "shipping", "a-b-c", "topic-2024"}
	for _, s := range valid {
		if !ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"", "-faq", "faq-", "fa--q", "FAQ", "faq_1", "faq 1", "faq.1", "тема",
	}
	for _, s := range invalid {
		if ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = true, want false", s)
		}
	}
}
