package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ventilia/nuclear-donor-bot/internal/models"
	"github.com/ventilia/nuclear-donor-bot/internal/services"
	"github.com/ventilia/nuclear-donor-bot/internal/session"
)

const usersPageSize = 5

const adminHelpText = "Команды администратора: 🛠\n" +
	"/moderate - Профили на модерации 🕵️\n" +
	"/users - Список пользователей 👥\n" +
	"/event_create - Создать мероприятие ➕\n" +
	"/events - Список мероприятий 📅\n" +
	"/broadcast - Рассылка всем пользователям 📢\n" +
	"/answer - Ответить на вопросы ❓\n" +
	"/stat - Общая статистика 📊\n" +
	"/upload_stats - Загрузить таблицу доноров 📥\n" +
	"/export_stats - Выгрузить статистику 📤\n" +
	"/backup_users - Резервная копия пользователей 💾\n" +
	"/restore_users - Восстановить из копии ♻️\n" +
	"/add_admin - Добавить администратора 👑"

// handleAdminCommand reports whether cmd was a recognized admin command from
// an actual admin. Non-admins fall through to the unknown-command reply so
// the admin surface stays invisible to them.
func (d *Dispatcher) handleAdminCommand(chat int64, cmd string) bool {
	if !services.IsAdmin(chat) {
		return false
	}
	switch cmd {
	case "/admin":
		d.reply(chat, adminHelpText, nil)
	case "/stat":
		d.handleAdminStats(chat)
	case "/moderate":
		d.handleModerate(chat)
	case "/users":
		d.sendUsersPage(chat, 0)
	case "/event_create":
		d.sessions.SetState(chat, session.StateEventDate)
		d.reply(chat, "Введите дату мероприятия (ГГГГ-ММ-ДД): 📆", BackKeyboard())
	case "/events":
		d.handleEventList(chat)
	case "/broadcast":
		d.sessions.SetState(chat, session.StateBroadcastText)
		d.reply(chat, "Введите текст рассылки: 📢", BackKeyboard())
	case "/answer":
		d.handleAnswerList(chat)
	case "/upload_stats":
		if d.sheets == nil {
			d.reply(chat, "Загрузка таблиц недоступна. ⚠️", nil)
			return true
		}
		d.sessions.SetState(chat, session.StateAwaitingStatsFile)
		d.reply(chat, "Пришлите файл таблицы доноров (.csv, разделитель «;»): 📥", BackKeyboard())
	case "/export_stats":
		d.handleExportStats(chat)
	case "/backup_users":
		d.handleBackupUsers(chat)
	case "/restore_users":
		if d.sheets == nil {
			d.reply(chat, "Восстановление недоступно. ⚠️", nil)
			return true
		}
		d.sessions.SetState(chat, session.StateRestoreFile)
		d.reply(chat, "Пришлите файл резервной копии (.csv). ⚠️ Текущие пользователи будут заменены!", BackKeyboard())
	case "/add_admin":
		d.sessions.SetState(chat, session.StateAddAdminID)
		d.reply(chat, "Введите chat ID нового администратора: 👑", BackKeyboard())
	default:
		return false
	}
	return true
}

func (d *Dispatcher) handleAdminStateText(chat int64, state session.State, text string) bool {
	switch state {
	case session.StateEventDate, session.StateEventTime, session.StateEventLocation,
		session.StateEventDescription, session.StateEventCapacity:
		d.stepEventForm(chat, state, text)
	case session.StateBroadcastText:
		d.stageBroadcast(chat, text)
	case session.StateBroadcastPhoto:
		d.stepBroadcastPhotoText(chat, text)
	case session.StateAddAdminID:
		d.stageAddAdmin(chat, text)
	case session.StateAwaitingAnswer:
		d.deliverAnswer(chat, text)
	case session.StateAwaitingStatsFile, session.StateAwaitingAttendanceFile, session.StateRestoreFile:
		if session.IsBack(text) {
			d.sessions.Clear(chat)
			d.reply(chat, "Операция отменена.", RemoveKeyboard())
			return true
		}
		d.reply(chat, "Ожидается файл. Пришлите документ или нажмите «Назад». 📎", BackKeyboard())
	case session.StateBroadcastConfirm, session.StateAddAdminConfirm, session.StateRestoreConfirm:
		d.reply(chat, "Пожалуйста, ответьте кнопками Подтвердить/Отмена.", nil)
	default:
		return false
	}
	return true
}

// --- stats, moderation, user browser ---

func (d *Dispatcher) handleAdminStats(chat int64) {
	s, err := services.AdminStats()
	if err != nil {
		d.log.Error("admin stats failed", zap.Error(err))
		d.replyRetry(chat)
		return
	}
	d.reply(chat, fmt.Sprintf(
		"Общая статистика: 📊\nОдобренных пользователей: %d 👥\nМероприятий: %d 📅\nАктивных регистраций: %d ✅",
		s.ApprovedUsers, s.Events, s.Registrations), nil)
}

func (d *Dispatcher) handleModerate(chat int64) {
	users, err := services.PendingProfiles()
	if err != nil {
		d.log.Error("pending profiles failed", zap.Error(err))
		d.replyRetry(chat)
		return
	}
	if len(users) == 0 {
		d.reply(chat, "Нет профилей на модерации. ✅", nil)
		return
	}
	for _, u := range users {
		d.reply(chat, profileCard(&u), inline(
			btn("Одобрить ✅", fmt.Sprintf("approve_%d", u.ID)),
			btn("Отклонить ❌", fmt.Sprintf("reject_%d", u.ID)),
		))
	}
}

func profileCard(u *models.User) string {
	group, social, phone := u.GroupName, "Нет", "Нет"
	if group == "" {
		group = "Нет"
	}
	if u.SocialContacts != nil {
		social = *u.SocialContacts
	}
	if u.Phone != nil {
		phone = *u.Phone
	}
	return fmt.Sprintf(
		"Профиль №%d 👤\nФИО: %s\nКатегория: %s\nГруппа: %s\nТелефон: %s 📞\nСоцсети: %s 🔗\nСтатус: %s",
		u.ID, u.FullName, u.Category, group, phone, social, u.ProfileStatus)
}

func (d *Dispatcher) sendUsersPage(chat int64, offset int) {
	users, err := services.UsersPage(usersPageSize, offset)
	if err != nil {
		d.log.Error("users page failed", zap.Error(err))
		d.replyRetry(chat)
		return
	}
	if len(users) == 0 {
		d.reply(chat, "Больше пользователей нет. 👥", nil)
		return
	}
	for _, u := range users {
		d.reply(chat, profileCard(&u), inline(
			btn("Удалить ❌", fmt.Sprintf("kick_%d", u.ID)),
		))
	}
	nav := []map[string]any{}
	if offset > 0 {
		prev := offset - usersPageSize
		if prev < 0 {
			prev = 0
		}
		nav = append(nav, btn("⬅️ Назад", fmt.Sprintf("prev_%d", prev)))
	}
	if len(users) == usersPageSize {
		nav = append(nav, btn("Вперёд ➡️", fmt.Sprintf("next_%d", offset+usersPageSize)))
	}
	if len(nav) > 0 {
		d.reply(chat, "Навигация:", inline(nav...))
	}
}

// --- event creation form ---

func (d *Dispatcher) stepEventForm(chat int64, state session.State, text string) {
	if session.IsBack(text) {
		d.sessions.Clear(chat)
		d.reply(chat, "Создание мероприятия отменено.", RemoveKeyboard())
		return
	}
	switch state {
	case session.StateEventDate:
		if !session.ValidEventDate(text) {
			d.reply(chat, "Неверный формат даты (пример: 2026-09-15). Попробуйте снова. ⚠️", BackKeyboard())
			return
		}
		d.sessions.SetField(chat, session.FieldEventDate, text)
		d.sessions.SetState(chat, session.StateEventTime)
		d.reply(chat, "Введите время (например, 10:00): ⏰", BackKeyboard())
	case session.StateEventTime:
		d.sessions.SetField(chat, session.FieldEventTime, strings.TrimSpace(text))
		d.sessions.SetState(chat, session.StateEventLocation)
		d.reply(chat, "Введите место проведения: 📍", BackKeyboard())
	case session.StateEventLocation:
		d.sessions.SetField(chat, session.FieldEventLoc, strings.TrimSpace(text))
		d.sessions.SetState(chat, session.StateEventDescription)
		d.reply(chat, "Введите описание: 📝", BackKeyboard())
	case session.StateEventDescription:
		d.sessions.SetField(chat, session.FieldEventDesc, strings.TrimSpace(text))
		d.sessions.SetState(chat, session.StateEventCapacity)
		d.reply(chat, "Введите вместимость (число мест): 🔢", BackKeyboard())
	case session.StateEventCapacity:
		capacity, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || capacity <= 0 {
			d.reply(chat, "Вместимость должна быть положительным числом. Попробуйте снова. ⚠️", BackKeyboard())
			return
		}
		sess := d.sessions.Snapshot(chat)
		d.sessions.Clear(chat)
		ev, err := services.CreateEvent(
			sess.Fields[session.FieldEventDate],
			sess.Fields[session.FieldEventTime],
			sess.Fields[session.FieldEventLoc],
			sess.Fields[session.FieldEventDesc],
			capacity)
		if err != nil {
			d.log.Error("event create failed", zap.Error(err))
			d.replyRetry(chat)
			return
		}
		d.reply(chat, fmt.Sprintf("Мероприятие №%d создано и анонсировано! 🎉", ev.ID), RemoveKeyboard())
	}
}

func (d *Dispatcher) handleEventList(chat int64) {
	evs, err := services.AllEvents()
	if err != nil {
		d.log.Error("event list failed", zap.Error(err))
		d.replyRetry(chat)
		return
	}
	if len(evs) == 0 {
		d.reply(chat, "Мероприятий пока нет. 📅", nil)
		return
	}
	buttons := make([]map[string]any, 0, len(evs))
	for _, ev := range evs {
		buttons = append(buttons, btn(
			fmt.Sprintf("№%d %s %s (%s)", ev.ID, ev.Date, ev.Time, ev.Status),
			fmt.Sprintf("detail_%d", ev.ID)))
	}
	d.reply(chat, "Мероприятия: 📋", inline(buttons...))
}

func (d *Dispatcher) sendEventDetail(chat int64, eventID uint) {
	evs, err := services.AllEvents()
	if err != nil {
		d.replyRetry(chat)
		return
	}
	var ev *models.Event
	for i := range evs {
		if evs[i].ID == eventID {
			ev = &evs[i]
			break
		}
	}
	if ev == nil {
		d.reply(chat, "Мероприятие не найдено. ⚠️", nil)
		return
	}
	registered, _ := services.RegisteredCount(eventID)
	attended, _ := services.AttendedCount(eventID)
	toggleLabel := "Заморозить ❄️"
	if ev.Status == models.EventFrozen {
		toggleLabel = "Разморозить 🔥"
	}
	d.reply(chat, fmt.Sprintf(
		"Мероприятие №%d 📅\nДата: %s %s\nМесто: %s\nОписание: %s\n"+
			"Статус: %s\nЗаписано: %d/%d\nПришло: %d",
		ev.ID, ev.Date, ev.Time, ev.Location, ev.Description,
		ev.Status, registered, ev.Capacity, attended),
		inline(
			btn(toggleLabel, fmt.Sprintf("toggle_%d", ev.ID)),
			btn("Сверить явку 📋", fmt.Sprintf("reconcile_%d", ev.ID)),
		))
}

// --- broadcast and add-admin, both behind a confirm step ---

const noPhotoLabel = "Без фото 📄"

func (d *Dispatcher) stageBroadcast(chat int64, text string) {
	if session.IsBack(text) {
		d.sessions.Clear(chat)
		d.reply(chat, "Рассылка отменена.", RemoveKeyboard())
		return
	}
	if strings.TrimSpace(text) == "" {
		d.reply(chat, "Текст не может быть пустым. Попробуйте снова.", BackKeyboard())
		return
	}
	d.sessions.SetField(chat, session.FieldText, text)
	d.sessions.SetState(chat, session.StateBroadcastPhoto)
	d.reply(chat, "Прикрепите фото (если нужно) или нажмите «Без фото»: 🖼", BroadcastPhotoKeyboard())
}

// stepBroadcastPhotoText handles the text inputs of the photo step; the
// photo itself arrives as a separate message kind.
func (d *Dispatcher) stepBroadcastPhotoText(chat int64, text string) {
	switch {
	case session.IsBack(text):
		d.sessions.SetState(chat, session.StateBroadcastText)
		d.reply(chat, "Введите текст рассылки: 📢", BackKeyboard())
	case strings.TrimSpace(text) == noPhotoLabel:
		d.confirmBroadcast(chat)
	default:
		d.reply(chat, "Пожалуйста, прикрепите фото или выберите «Без фото».", BroadcastPhotoKeyboard())
	}
}

func (d *Dispatcher) stageBroadcastPhoto(chat int64, fileID string) {
	d.sessions.SetField(chat, session.FieldPhotoID, fileID)
	d.confirmBroadcast(chat)
}

func (d *Dispatcher) confirmBroadcast(chat int64) {
	text := d.sessions.Field(chat, session.FieldText)
	d.sessions.SetState(chat, session.StateBroadcastConfirm)
	suffix := ""
	if d.sessions.Field(chat, session.FieldPhotoID) != "" {
		suffix = "\n\n(с фото 🖼)"
	}
	d.reply(chat, "Отправить всем пользователям? 📢\n\n"+text+suffix, ConfirmActionKeyboard("bc"))
}

func (d *Dispatcher) stageAddAdmin(chat int64, text string) {
	if session.IsBack(text) {
		d.sessions.Clear(chat)
		d.reply(chat, "Операция отменена.", RemoveKeyboard())
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id == 0 {
		d.reply(chat, "Chat ID должен быть числом. Попробуйте снова. ⚠️", BackKeyboard())
		return
	}
	d.sessions.SetField(chat, session.FieldAdminID, strconv.FormatInt(id, 10))
	d.sessions.SetState(chat, session.StateAddAdminConfirm)
	d.reply(chat, fmt.Sprintf("Назначить %d администратором? 👑", id), ConfirmActionKeyboard("addadm"))
}

// --- questions ---

func (d *Dispatcher) handleAnswerList(chat int64) {
	qs, err := services.UnansweredQuestions()
	if err != nil {
		d.log.Error("question list failed", zap.Error(err))
		d.replyRetry(chat)
		return
	}
	if len(qs) == 0 {
		d.reply(chat, "Нет неотвеченных вопросов. ✅", nil)
		return
	}
	for _, q := range qs {
		d.reply(chat, fmt.Sprintf("Вопрос №%d: %s", q.ID, q.Text), inline(
			btn("Ответить ✍️", fmt.Sprintf("ans_%d", q.ID)),
		))
	}
}

func (d *Dispatcher) deliverAnswer(chat int64, text string) {
	if session.IsBack(text) {
		d.sessions.Clear(chat)
		d.reply(chat, "Ответ отменён.", RemoveKeyboard())
		return
	}
	qID, _ := strconv.ParseUint(d.sessions.Field(chat, session.FieldQuestionID), 10, 64)
	d.sessions.Clear(chat)
	if qID == 0 {
		d.reply(chat, "Вопрос не выбран. ⚠️", RemoveKeyboard())
		return
	}
	authorChat, err := services.AnswerQuestion(uint(qID))
	if errors.Is(err, services.ErrQuestionNotFound) {
		d.reply(chat, "Вопрос не найден. ⚠️", RemoveKeyboard())
		return
	}
	if err != nil {
		d.log.Error("answer question failed", zap.Uint64("question", qID), zap.Error(err))
		d.replyRetry(chat)
		return
	}
	if authorChat != 0 {
		d.reply(authorChat, "Ответ организаторов на ваш вопрос: 💬\n"+text, nil)
	}
	d.reply(chat, "Ответ отправлен. ✅", RemoveKeyboard())
}

// --- spreadsheet uploads, export, backup, restore ---

func (d *Dispatcher) handleDocument(chat int64, state session.State, doc *Document) {
	if !services.IsAdmin(chat) {
		d.reply(chat, "Не понял. /help — список команд.", nil)
		return
	}
	switch state {
	case session.StateAwaitingStatsFile:
		d.importStatsFile(chat, doc.FileID)
	case session.StateAwaitingAttendanceFile:
		d.reconcileFromFile(chat, doc.FileID)
	case session.StateRestoreFile:
		d.stageRestore(chat, doc.FileID)
	default:
		d.reply(chat, "Файл не ожидается. Используйте /upload_stats, /restore_users или сверку явки.", nil)
	}
}

func (d *Dispatcher) importStatsFile(chat int64, fileID string) {
	d.sessions.Clear(chat)
	rows, err := d.sheets.StatRows(fileID)
	if err != nil {
		d.log.Error("stats parse failed", zap.Error(err))
		d.reply(chat, "Не удалось разобрать файл. Проверьте формат. ⚠️", RemoveKeyboard())
		return
	}
	imported, skipped, conflicts := 0, 0, 0
	for _, row := range rows {
		switch err := services.ImportUserRow(row); {
		case err == nil:
			imported++
		case errors.Is(err, services.ErrRowSkipped):
			skipped++
		case errors.Is(err, services.ErrDuplicatePhone):
			conflicts++
			d.log.Warn("import conflict", zap.String("name", row.FullName))
		default:
			d.log.Error("import row failed", zap.String("name", row.FullName), zap.Error(err))
			skipped++
		}
	}
	d.reply(chat, fmt.Sprintf(
		"Импорт завершён. 📥\nДобавлено/обновлено: %d\nПропущено: %d\nКонфликтов телефонов: %d",
		imported, skipped, conflicts), RemoveKeyboard())
}

func (d *Dispatcher) reconcileFromFile(chat int64, fileID string) {
	sess := d.sessions.Snapshot(chat)
	d.sessions.Clear(chat)
	eventID, _ := strconv.ParseUint(sess.Fields[session.FieldEventID], 10, 64)
	center := sess.Fields[session.FieldCenter]
	if eventID == 0 || center == "" {
		d.reply(chat, "Сначала выберите мероприятие и центр через /events. ⚠️", RemoveKeyboard())
		return
	}
	names, err := d.sheets.AttendedNames(fileID)
	if err != nil {
		d.log.Error("attendance parse failed", zap.Error(err))
		d.reply(chat, "Не удалось разобрать файл явки. ⚠️", RemoveKeyboard())
		return
	}
	results, err := services.ReconcileAttendance(uint(eventID), names, center)
	if err != nil {
		d.log.Error("reconcile failed", zap.Uint64("event", eventID), zap.Error(err))
		d.replyRetry(chat)
		return
	}
	came, missed := 0, 0
	for _, r := range results {
		if r.Attended {
			came++
			continue
		}
		missed++
		u, err := userChatByID(r.UserID)
		if err != nil || u == 0 {
			continue
		}
		if err := d.SurveyNonAttendance(u, r.RegistrationID); err != nil {
			d.log.Warn("survey send failed", zap.Int64("chat", u), zap.Error(err))
		}
	}
	d.reply(chat, fmt.Sprintf(
		"Сверка завершена. 📋\nПришло: %d ✅\nНе пришло: %d ❌\nНе пришедшим отправлен опрос.",
		came, missed), RemoveKeyboard())
}

func userChatByID(userID uint) (int64, error) {
	u, err := services.UserByID(userID)
	if err != nil {
		return 0, err
	}
	if u.ChatID == nil {
		return 0, nil
	}
	return *u.ChatID, nil
}

func (d *Dispatcher) handleExportStats(chat int64) {
	rows, err := services.ExportRows()
	if err != nil {
		d.log.Error("export failed", zap.Error(err))
		d.replyRetry(chat)
		return
	}
	if len(rows) == 0 {
		d.reply(chat, "Нет данных для выгрузки. 📤", nil)
		return
	}
	var b strings.Builder
	b.WriteString("Статистика доноров: 📤\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s | %s | Гаврилова: %d (%s) | ФМБА: %d (%s) | всего %d\n",
			r.FullName, orDash(r.GroupName),
			r.CountGavrilov, orDash(r.LastGavrilov),
			r.CountFMBA, orDash(r.LastFMBA), r.Total)
	}
	d.replyChunked(chat, b.String())
}

// handleBackupUsers dumps every profile in the same column order UserRows
// expects, so a saved backup restores without reshaping.
func (d *Dispatcher) handleBackupUsers(chat int64) {
	users, err := services.AllUsers()
	if err != nil {
		d.log.Error("backup failed", zap.Error(err))
		d.replyRetry(chat)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Резервная копия (%d пользователей): 💾\n", len(users))
	b.WriteString("ФИО;Телефон;Категория;Группа;Соцсети;Статус;Согласие;ДКМ;ChatID\n")
	for _, u := range users {
		phone, social, chatID := "", "", ""
		if u.Phone != nil {
			phone = *u.Phone
		}
		if u.SocialContacts != nil {
			social = *u.SocialContacts
		}
		if u.ChatID != nil {
			chatID = strconv.FormatInt(*u.ChatID, 10)
		}
		fmt.Fprintf(&b, "%s;%s;%s;%s;%s;%s;%s;%s;%s\n",
			u.FullName, phone, u.Category, u.GroupName, social,
			u.ProfileStatus, boolCell(u.Consent), boolCell(u.MarrowRegistry), chatID)
	}
	d.replyChunked(chat, b.String())
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (d *Dispatcher) stageRestore(chat int64, fileID string) {
	users, err := d.sheets.UserRows(fileID)
	if err != nil {
		d.sessions.Clear(chat)
		d.log.Error("restore parse failed", zap.Error(err))
		d.reply(chat, "Не удалось разобрать файл резервной копии. ⚠️", RemoveKeyboard())
		return
	}
	d.setPendingRestore(chat, users)
	d.sessions.SetState(chat, session.StateRestoreConfirm)
	d.reply(chat, fmt.Sprintf(
		"⚠️ ВНИМАНИЕ: все текущие пользователи и их записи будут УДАЛЕНЫ и заменены %d записями из файла. Продолжить?",
		len(users)), ConfirmActionKeyboard("restore"))
}

// --- admin callbacks ---

func (d *Dispatcher) handleAdminCallback(cb *CallbackQuery) {
	chat := cb.Message.Chat.ID
	if !services.IsAdmin(chat) {
		d.answer(cb, "")
		return
	}
	data := cb.Data

	switch {
	case strings.HasPrefix(data, "approve_"), strings.HasPrefix(data, "reject_"):
		approve := strings.HasPrefix(data, "approve_")
		prefix := "reject_"
		if approve {
			prefix = "approve_"
		}
		id, ok := trailingID(data, prefix)
		if !ok {
			return
		}
		if err := services.ModerateProfile(id, approve); err != nil {
			d.log.Error("moderation failed", zap.Uint("user", id), zap.Error(err))
			d.answer(cb, "Произошла ошибка. ⚠️")
			return
		}
		if approve {
			d.answer(cb, "Профиль одобрен. ✅")
		} else {
			d.answer(cb, "Профиль отклонён. ❌")
		}

	case strings.HasPrefix(data, "kick_"):
		id, ok := trailingID(data, "kick_")
		if !ok {
			return
		}
		kickedChat, err := services.KickUser(id)
		if err != nil {
			d.log.Error("kick failed", zap.Uint("user", id), zap.Error(err))
			d.answer(cb, "Не удалось удалить пользователя. ⚠️")
			return
		}
		d.answer(cb, "Пользователь удалён. ❌")
		if kickedChat != 0 {
			d.reply(kickedChat, "Ваш профиль был удалён администратором.", nil)
		}

	case strings.HasPrefix(data, "next_"), strings.HasPrefix(data, "prev_"):
		prefix := "next_"
		if strings.HasPrefix(data, "prev_") {
			prefix = "prev_"
		}
		offset, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
		if err != nil || offset < 0 {
			return
		}
		d.answer(cb, "")
		d.sendUsersPage(chat, offset)

	case strings.HasPrefix(data, "detail_"):
		if id, ok := trailingID(data, "detail_"); ok {
			d.answer(cb, "")
			d.sendEventDetail(chat, id)
		}

	case strings.HasPrefix(data, "toggle_"):
		id, ok := trailingID(data, "toggle_")
		if !ok {
			return
		}
		status, err := services.ToggleEventStatus(id)
		if err != nil {
			d.log.Error("toggle failed", zap.Uint("event", id), zap.Error(err))
			d.answer(cb, "Не удалось изменить статус. ⚠️")
			return
		}
		if status == models.EventFrozen {
			d.answer(cb, "Мероприятие заморожено. ❄️")
		} else {
			d.answer(cb, "Мероприятие активно. 🔥")
		}

	case strings.HasPrefix(data, "reconcile_"):
		id, ok := trailingID(data, "reconcile_")
		if !ok {
			return
		}
		if d.sheets == nil {
			d.answer(cb, "Загрузка таблиц недоступна. ⚠️")
			return
		}
		d.answer(cb, "")
		d.sessions.SetField(chat, session.FieldEventID, strconv.FormatUint(uint64(id), 10))
		d.reply(chat, "В каком центре проходило мероприятие? 🏥", inline(
			btn(models.CenterGavrilov, "center_gavr"),
			btn(models.CenterFMBA, "center_fmba"),
		))

	case data == "center_gavr", data == "center_fmba":
		center := models.CenterGavrilov
		if data == "center_fmba" {
			center = models.CenterFMBA
		}
		d.answer(cb, "")
		d.sessions.SetField(chat, session.FieldCenter, center)
		d.sessions.SetState(chat, session.StateAwaitingAttendanceFile)
		d.reply(chat, "Пришлите файл со списком пришедших (.csv): 📋", BackKeyboard())

	case strings.HasPrefix(data, "ans_"):
		if id, ok := trailingID(data, "ans_"); ok {
			d.answer(cb, "")
			d.sessions.SetField(chat, session.FieldQuestionID, strconv.FormatUint(uint64(id), 10))
			d.sessions.SetState(chat, session.StateAwaitingAnswer)
			d.reply(chat, "Введите текст ответа: ✍️", BackKeyboard())
		}

	case data == "bc_confirm":
		text := d.sessions.Field(chat, session.FieldText)
		photoID := d.sessions.Field(chat, session.FieldPhotoID)
		d.sessions.Clear(chat)
		if text == "" {
			d.answer(cb, "Текст рассылки утерян. ⚠️")
			return
		}
		sent := d.Broadcast(text, photoID)
		d.answer(cb, "")
		d.reply(chat, fmt.Sprintf("Рассылка отправлена %d пользователям. 📢", sent), RemoveKeyboard())

	case data == "bc_cancel":
		d.sessions.Clear(chat)
		d.answer(cb, "Рассылка отменена.")

	case data == "addadm_confirm":
		id, _ := strconv.ParseInt(d.sessions.Field(chat, session.FieldAdminID), 10, 64)
		d.sessions.Clear(chat)
		if id == 0 {
			d.answer(cb, "Chat ID утерян. ⚠️")
			return
		}
		if err := services.AddAdmin(id); err != nil {
			d.log.Error("add admin failed", zap.Int64("admin", id), zap.Error(err))
			d.answer(cb, "Не удалось добавить администратора. ⚠️")
			return
		}
		d.answer(cb, "Администратор добавлен. 👑")
		d.reply(id, "Вам выданы права администратора. /admin — список команд. 👑", nil)

	case data == "addadm_cancel":
		d.sessions.Clear(chat)
		d.answer(cb, "Операция отменена.")

	case data == "restore_confirm":
		users, ok := d.takePendingRestore(chat)
		d.sessions.Clear(chat)
		if !ok {
			d.answer(cb, "Данные восстановления утеряны. ⚠️")
			return
		}
		if err := services.ReplaceAllUsers(users); err != nil {
			d.log.Error("restore failed", zap.Error(err))
			d.answer(cb, "Восстановление не удалось. ⚠️")
			return
		}
		d.answer(cb, "")
		d.reply(chat, fmt.Sprintf("Восстановлено %d пользователей. ♻️", len(users)), RemoveKeyboard())

	case data == "restore_cancel":
		d.takePendingRestore(chat)
		d.sessions.Clear(chat)
		d.answer(cb, "Восстановление отменено.")
	}
}

// replyChunked splits long reports across messages; Telegram caps one message
// at 4096 characters.
func (d *Dispatcher) replyChunked(chat int64, text string) {
	const limit = 4000
	for len(text) > limit {
		cut := strings.LastIndexByte(text[:limit], '\n')
		if cut <= 0 {
			cut = limit
		}
		d.reply(chat, text[:cut], nil)
		text = text[cut:]
	}
	if strings.TrimSpace(text) != "" {
		d.reply(chat, text, nil)
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
