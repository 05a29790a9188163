package bot

import (
	"testing"
)

// TestDecodeRecords_Semicolon: uploads use the Russian-locale CSV dialect
// with ";" separators and ragged rows.
func TestDecodeRecords_Semicolon(t *testing.T) {
	raw := []byte("ФИО;Группа\nИванов Иван;Б21-302\nПетров Пётр\n")
	recs, err := decodeRecords(raw)
	if err != nil {
		t.Fatalf("decodeRecords: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records: want 3, got %d", len(recs))
	}
	if recs[1][0] != "Иванов Иван" || recs[1][1] != "Б21-302" {
		t.Errorf("row fields: got %v", recs[1])
	}
}

func TestAttendedNames_SkipsHeaderAndBlanks(t *testing.T) {
	names := attendedNames([][]string{
		{"ФИО"},
		{"Иванов Иван"},
		{"  "},
		{"Петров Пётр", "лишняя колонка"},
	})
	if len(names) != 2 || names[0] != "Иванов Иван" || names[1] != "Петров Пётр" {
		t.Errorf("names: got %v", names)
	}
}

func TestStatRows_ParsesColumns(t *testing.T) {
	rows := statRows([][]string{
		{"ФИО", "Группа", "Гаврилова", "Дата", "ФМБА", "Дата", "Соцсети", "Телефон"},
		{"Иванов Иван", "Б21-302", "2", "2026-05-10", "1", "", "@ivanov", "89001234567"},
		{"обрезанная строка", "без", "колонок"},
	})
	if len(rows) != 1 {
		t.Fatalf("rows: want 1, got %d", len(rows))
	}
	r := rows[0]
	if r.FullName != "Иванов Иван" || r.CountGavrilov != 2 || r.CountFMBA != 1 {
		t.Errorf("parsed row: %+v", r)
	}
	if r.LastGavrilov != "2026-05-10" || r.LastFMBA != "" {
		t.Errorf("dates: %q / %q", r.LastGavrilov, r.LastFMBA)
	}
}

// TestUserRows_RestoreFormat parses the backup layout, including the truthy
// consent and marrow cells and the optional chat id column.
func TestUserRows_RestoreFormat(t *testing.T) {
	users := userRows([][]string{
		{"ФИО", "Телефон", "Категория", "Группа", "Соцсети", "Статус", "Согласие", "ДКМ", "ChatID"},
		{"Иванов Иван", "89001234567", "student", "Б21-302", "@ivanov", "approved", "1", "да", "42"},
		{"Без Телефона", "", "external", "", "", "", "0", "0", ""},
	})
	if len(users) != 2 {
		t.Fatalf("users: want 2, got %d", len(users))
	}

	u := users[0]
	if u.Phone == nil || *u.Phone != "+79001234567" {
		t.Errorf("phone not normalized")
	}
	if u.ChatID == nil || *u.ChatID != 42 {
		t.Errorf("chat id not parsed")
	}
	if !u.Consent || !u.MarrowRegistry {
		t.Errorf("truthy cells not applied")
	}

	fallback := users[1]
	if fallback.Phone != nil || fallback.ChatID != nil {
		t.Errorf("empty optional columns produced values")
	}
	if fallback.ProfileStatus != "approved" {
		t.Errorf("status fallback: got %q", fallback.ProfileStatus)
	}
}
