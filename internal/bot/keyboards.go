package bot

import (
	"fmt"

	"github.com/ventilia/nuclear-donor-bot/internal/session"
)

func ContactKeyboard() any {
	return map[string]any{
		"keyboard": [][]map[string]any{
			{{"text": "Поделиться номером телефона 📞", "request_contact": true}},
		},
		"resize_keyboard":   true,
		"one_time_keyboard": true,
	}
}

func BackKeyboard() any {
	return map[string]any{
		"keyboard": [][]map[string]string{
			{{"text": session.BackLabel}},
		},
		"resize_keyboard": true,
	}
}

func RemoveKeyboard() any {
	return map[string]any{"remove_keyboard": true}
}

// BroadcastPhotoKeyboard offers skipping the photo or stepping back to the
// broadcast text.
func BroadcastPhotoKeyboard() any {
	return map[string]any{
		"keyboard": [][]map[string]string{
			{{"text": noPhotoLabel}},
			{{"text": session.BackLabel}},
		},
		"resize_keyboard": true,
	}
}

func ConsentKeyboard() any {
	return inline(
		btn("Согласен ✅", "consent_yes"),
		btn("Нет ❌", "consent_no"),
	)
}

func ProfileConfirmKeyboard() any {
	return inline(
		btn("Да ✅", "confirm_yes"),
		btn("Нет ❌", "confirm_no"),
	)
}

func CategoryKeyboard() any {
	return inline(
		btn("Студент 🎓", "cat_student"),
		btn("Сотрудник 👔", "cat_employee"),
		btn("Внешний донор 🌍", "cat_external"),
	)
}

func CancelReasonKeyboard(regID uint) any {
	return inline(
		btn("Медотвод ⚕️", fmt.Sprintf("reason_med_%d", regID)),
		btn("Личные причины 👤", fmt.Sprintf("reason_personal_%d", regID)),
		btn("Не захотел 😔", fmt.Sprintf("reason_no_%d", regID)),
	)
}

func ConfirmActionKeyboard(prefix string) any {
	return inline(
		btn("Подтвердить ✅", prefix+"_confirm"),
		btn("Отмена ❌", prefix+"_cancel"),
	)
}

func btn(text, data string) map[string]any {
	return map[string]any{"text": text, "callback_data": data}
}

// inline builds a one-button-per-row inline keyboard.
func inline(buttons ...map[string]any) any {
	rows := make([][]map[string]any, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []map[string]any{b})
	}
	return map[string]any{"inline_keyboard": rows}
}
