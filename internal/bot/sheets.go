package bot

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/ventilia/nuclear-donor-bot/internal/models"
	"github.com/ventilia/nuclear-donor-bot/internal/services"
)

// CSVSheets reads admin-uploaded tables as semicolon-separated CSV, the
// format Russian-locale spreadsheet tools export by default.
type CSVSheets struct {
	c *Client
}

func NewCSVSheets(c *Client) *CSVSheets {
	return &CSVSheets{c: c}
}

func (s *CSVSheets) records(fileID string) ([][]string, error) {
	raw, err := s.c.DownloadFile(fileID)
	if err != nil {
		return nil, err
	}
	return decodeRecords(raw)
}

func decodeRecords(raw []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv parse: %w", err)
	}
	return recs, nil
}

// AttendedNames reads full names from the first column. A header row with
// "ФИО" or "fio" in the first cell is skipped.
func (s *CSVSheets) AttendedNames(fileID string) ([]string, error) {
	recs, err := s.records(fileID)
	if err != nil {
		return nil, err
	}
	return attendedNames(recs), nil
}

func attendedNames(recs [][]string) []string {
	var names []string
	for i, rec := range recs {
		if len(rec) == 0 {
			continue
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			continue
		}
		if i == 0 && isNameHeader(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// StatRows parses a statistics table:
// ФИО;Группа;Гаврилова;Дата Гаврилова;ФМБА;Дата ФМБА;Соцсети;Телефон
func (s *CSVSheets) StatRows(fileID string) ([]services.StatRow, error) {
	recs, err := s.records(fileID)
	if err != nil {
		return nil, err
	}
	return statRows(recs), nil
}

func statRows(recs [][]string) []services.StatRow {
	var rows []services.StatRow
	for i, rec := range recs {
		if len(rec) < 8 {
			continue
		}
		if i == 0 && isNameHeader(rec[0]) {
			continue
		}
		rows = append(rows, services.StatRow{
			FullName:      strings.TrimSpace(rec[0]),
			GroupHint:     strings.TrimSpace(rec[1]),
			CountGavrilov: atoiSafe(rec[2]),
			LastGavrilov:  strings.TrimSpace(rec[3]),
			CountFMBA:     atoiSafe(rec[4]),
			LastFMBA:      strings.TrimSpace(rec[5]),
			Social:        strings.TrimSpace(rec[6]),
			Phone:         strings.TrimSpace(rec[7]),
		})
	}
	return rows
}

// UserRows parses a users backup:
// ФИО;Телефон;Категория;Группа;Соцсети;Статус;Согласие;ДКМ;ChatID
func (s *CSVSheets) UserRows(fileID string) ([]models.User, error) {
	recs, err := s.records(fileID)
	if err != nil {
		return nil, err
	}
	return userRows(recs), nil
}

func userRows(recs [][]string) []models.User {
	var users []models.User
	for i, rec := range recs {
		if len(rec) < 6 {
			continue
		}
		if i == 0 && isNameHeader(rec[0]) {
			continue
		}
		u := models.User{
			FullName:      strings.TrimSpace(rec[0]),
			Category:      strings.TrimSpace(rec[2]),
			GroupName:     strings.TrimSpace(rec[3]),
			ProfileStatus: strings.TrimSpace(rec[5]),
		}
		if u.FullName == "" {
			continue
		}
		if phone := services.NormPhone(rec[1]); phone != "" {
			u.Phone = &phone
		}
		if social := strings.TrimSpace(rec[4]); social != "" {
			u.SocialContacts = &social
		}
		if u.ProfileStatus == "" {
			u.ProfileStatus = models.ProfileApproved
		}
		if len(rec) > 6 {
			u.Consent = isTruthy(rec[6])
		}
		if len(rec) > 7 {
			u.MarrowRegistry = isTruthy(rec[7])
		}
		if len(rec) > 8 {
			if id, err := strconv.ParseInt(strings.TrimSpace(rec[8]), 10, 64); err == nil && id != 0 {
				u.ChatID = &id
			}
		}
		users = append(users, u)
	}
	return users
}

func isNameHeader(cell string) bool {
	h := strings.ToLower(strings.TrimSpace(cell))
	return h == "фио" || h == "fio" || h == "имя"
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "да", "yes":
		return true
	}
	return false
}
