package bot

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ventilia/nuclear-donor-bot/internal/events"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
	"github.com/ventilia/nuclear-donor-bot/internal/services"
	"github.com/ventilia/nuclear-donor-bot/internal/session"
)

// SheetSource parses uploaded spreadsheets into rows the core understands.
// The actual workbook format lives outside the core; a nil source disables
// the upload commands.
type SheetSource interface {
	// AttendedNames extracts attended full names from an attendance sheet.
	AttendedNames(fileID string) ([]string, error)
	// StatRows parses a statistics workbook for bulk import.
	StatRows(fileID string) ([]services.StatRow, error)
	// UserRows parses a users backup for restore.
	UserRows(fileID string) ([]models.User, error)
}

// Dispatcher routes inbound chat updates through the conversation state
// machine and the domain services.
type Dispatcher struct {
	c        *Client
	log      *zap.Logger
	sessions *session.Store
	baseURL  string // public base for QR links
	sheets   SheetSource

	// Parsed restore uploads awaiting the admin's confirmation. Webhook
	// handlers run concurrently, so access goes through the lock.
	restoreMu      sync.Mutex
	pendingRestore map[int64][]models.User
}

func NewDispatcher(c *Client, log *zap.Logger, baseURL string, sheets SheetSource) *Dispatcher {
	d := &Dispatcher{
		c:              c,
		log:            log,
		sessions:       session.NewStore(),
		baseURL:        strings.TrimRight(baseURL, "/"),
		sheets:         sheets,
		pendingRestore: make(map[int64][]models.User),
	}

	events.OnProfileModerated = func(chatID int64, approved bool) {
		if approved {
			d.reply(chatID, "Ваш профиль был принят администратором. ✅", nil)
			d.reply(chatID, userHelpText, nil)
		} else {
			d.reply(chatID, "Ваш профиль был отклонён администратором. ❌", nil)
		}
	}
	events.OnEventCreated = func(ev models.Event) {
		text := fmt.Sprintf(
			"Новое мероприятие! 📅\n%s %s, %s\n%s\nЗапись: /reg",
			ev.Date, ev.Time, ev.Location, ev.Description)
		d.Broadcast(text, "")
	}
	return d
}

// Sessions exposes the store for tests.
func (d *Dispatcher) Sessions() *session.Store { return d.sessions }

const userHelpText = "Вот команды пользователя: 📋\n" +
	"/profilreg - Зарегистрировать профиль ✍️\n" +
	"/reg - Записаться на мероприятие 📅\n" +
	"/profil - Посмотреть профиль 👤\n" +
	"/stats - Моя статистика 📊\n" +
	"/info - Информация о донорстве 📖\n" +
	"/ask - Задать вопрос организаторам ❓\n" +
	"/help - Показать этот список ❓"

// Handle processes one inbound update. Errors never escape: every failure
// turns into a polite reply plus a logged diagnostic.
func (d *Dispatcher) Handle(u *Update) {
	if u.Callback != nil {
		d.handleCallback(u.Callback)
		return
	}
	if u.Message != nil {
		d.handleMessage(u.Message)
	}
}

func (d *Dispatcher) handleMessage(m *Message) {
	if m.Chat == nil {
		return
	}
	chat := m.Chat.ID
	state := d.sessions.State(chat)

	if m.Contact != nil && state == session.StateAwaitingPhone {
		d.handleContact(chat, m.Contact)
		return
	}
	if m.Document != nil {
		d.handleDocument(chat, state, m.Document)
		return
	}
	if len(m.Photo) > 0 && state == session.StateBroadcastPhoto {
		d.stageBroadcastPhoto(chat, m.Photo[len(m.Photo)-1].FileID)
		return
	}

	text := strings.TrimSpace(m.Text)
	if strings.HasPrefix(text, "/") {
		d.handleCommand(chat, text)
		return
	}
	d.handleStateText(chat, state, text)
}

func (d *Dispatcher) handleCommand(chat int64, text string) {
	cmd := strings.ToLower(strings.Fields(text)[0])
	switch cmd {
	case "/start":
		d.sessions.Clear(chat)
		d.reply(chat, "Добро пожаловать в бот Дня Донора! 💉❤️\n"+
			"Ознакомьтесь с пользовательским соглашением.", nil)
		d.sessions.SetState(chat, session.StateAwaitingConsent)
		d.reply(chat, "Я ознакомился с пользовательским соглашением. 📄", ConsentKeyboard())
	case "/help":
		d.reply(chat, userHelpText, nil)
	case "/profilreg":
		d.startProfileForm(chat)
	case "/reg":
		d.handleRegList(chat)
	case "/profil":
		d.handleProfile(chat)
	case "/stats":
		d.handleStats(chat)
	case "/info":
		d.handleInfo(chat)
	case "/ask":
		d.handleAskStart(chat)
	default:
		if d.handleAdminCommand(chat, cmd) {
			return
		}
		d.reply(chat, "Неизвестная команда. /help — список команд.", nil)
	}
}

func (d *Dispatcher) handleStateText(chat int64, state session.State, text string) {
	switch state {
	case session.StateCollectingName, session.StateCollectingCategory,
		session.StateCollectingGroup, session.StateCollectingSocial:
		d.stepProfileForm(chat, text)
	case session.StateAwaitingCancelReason:
		d.recordCancelReason(chat, text)
	case session.StateAwaitingQuestion:
		d.submitQuestion(chat, text)
	case session.StateAwaitingConsent:
		d.reply(chat, "Пожалуйста, подтвердите согласие кнопкой. 📄", ConsentKeyboard())
	case session.StateAwaitingPhone:
		d.reply(chat, "Поделитесь номером телефона кнопкой ниже. 📞", ContactKeyboard())
	case session.StateAwaitingProfileConfirm:
		d.reply(chat, "Подтвердите профиль кнопками Да/Нет. ✅/❌", ProfileConfirmKeyboard())
	default:
		if d.handleAdminStateText(chat, state, text) {
			return
		}
		d.reply(chat, "Не понял. /help — список команд.", nil)
	}
}

// --- consent and phone ---

func (d *Dispatcher) handleContact(chat int64, contact *Contact) {
	phone := services.NormPhone(contact.PhoneNumber)
	if phone == "" {
		d.reply(chat, "Не удалось распознать номер. Попробуйте ещё раз. ⚠️", ContactKeyboard())
		return
	}
	d.sessions.SetField(chat, session.FieldPhone, phone)

	u, err := services.LookupByPhone(phone)
	switch {
	case err == nil:
		d.sessions.SetState(chat, session.StateAwaitingProfileConfirm)
		group := u.GroupName
		if group == "" {
			group = "Нет"
		}
		d.reply(chat, fmt.Sprintf(
			"Вы уже в базе: %s, категория: %s, группа: %s. Подтверждаете? ✅/❌",
			u.FullName, u.Category, group), ProfileConfirmKeyboard())
	case errors.Is(err, services.ErrProfileNotFound):
		d.startProfileForm(chat)
	default:
		d.log.Error("phone lookup failed", zap.String("phone", phone), zap.Error(err))
		d.replyRetry(chat)
	}
}

// --- profile form ---

func (d *Dispatcher) startProfileForm(chat int64) {
	d.sessions.SetState(chat, session.StateCollectingName)
	d.reply(chat, promptFor(session.StateCollectingName), BackKeyboard())
}

func (d *Dispatcher) stepProfileForm(chat int64, text string) {
	var res session.StepResult
	d.sessions.Update(chat, func(s *session.Session) {
		res = session.StepProfileForm(s, text)
	})

	switch res.Action {
	case session.ActionReject:
		d.reply(chat, rejectFor(res.State), formMarkup(res.State))
	case session.ActionPrompt:
		d.prompt(chat, res.State)
	case session.ActionCancelled:
		d.sessions.Clear(chat)
		d.reply(chat, "Регистрация отменена.", RemoveKeyboard())
	case session.ActionSubmit:
		d.submitProfile(chat)
	}
}

func (d *Dispatcher) submitProfile(chat int64) {
	sess := d.sessions.Snapshot(chat)
	var social *string
	if s := sess.Fields[session.FieldSocial]; s != "" {
		social = &s
	}
	_, err := services.SubmitProfile(services.ProfileSubmission{
		ChatID:         chat,
		Phone:          sess.Fields[session.FieldPhone],
		FullName:       sess.Fields[session.FieldFullName],
		Category:       sess.Fields[session.FieldCategory],
		GroupName:      sess.Fields[session.FieldGroup],
		SocialContacts: social,
		Consent:        sess.Fields[session.FieldConsent] == "1",
	})
	switch {
	case errors.Is(err, services.ErrDuplicatePhone):
		d.sessions.Clear(chat)
		d.reply(chat, "Этот номер телефона уже используется другим пользователем. "+
			"Начните регистрацию заново с другим номером. ⚠️", RemoveKeyboard())
	case err != nil:
		d.log.Error("profile submit failed", zap.Int64("chat", chat), zap.Error(err))
		d.replyRetry(chat)
	default:
		d.sessions.Clear(chat)
		d.reply(chat, "Ваш профиль отправлен на модерацию. ⏳", RemoveKeyboard())
	}
}

// --- event registration ---

func (d *Dispatcher) handleRegList(chat int64) {
	u, err := services.UserByChatID(chat)
	if err != nil || u.ProfileStatus != models.ProfileApproved {
		d.reply(chat, "Ваш профиль не одобрен или не существует. Зарегистрируйтесь через /profilreg. ⚠️", nil)
		return
	}
	evs, err := services.ActiveEvents()
	if err != nil {
		d.log.Error("list events failed", zap.Error(err))
		d.replyRetry(chat)
		return
	}
	if len(evs) == 0 {
		d.reply(chat, "Нет доступных мероприятий. 📅", nil)
		return
	}
	buttons := make([]map[string]any, 0, len(evs))
	for _, ev := range evs {
		buttons = append(buttons, btn(
			fmt.Sprintf("%s %s — %s 📆", ev.Date, ev.Time, ev.Description),
			fmt.Sprintf("reg_%d", ev.ID)))
	}
	d.reply(chat, "Выберите мероприятие: 📋", inline(buttons...))
}

func (d *Dispatcher) handleRegister(cb *CallbackQuery, eventID uint) {
	chat := cb.Message.Chat.ID
	u, err := services.UserByChatID(chat)
	if err != nil {
		d.answer(cb, "Пользователь не найден. Зарегистрируйтесь через /profilreg. ⚠️")
		return
	}
	reg, err := services.RegisterForEvent(u.ID, eventID)
	switch {
	case errors.Is(err, services.ErrEventFull):
		d.answer(cb, "Мероприятие заполнено. ❌")
	case errors.Is(err, services.ErrEventFrozen):
		d.answer(cb, "Запись на мероприятие приостановлена. ❄️")
	case errors.Is(err, services.ErrEventNotFound):
		d.answer(cb, "Мероприятие не найдено. ⚠️")
	case errors.Is(err, services.ErrInvalidEventDate):
		d.answer(cb, "Ошибка: некорректная дата мероприятия. ⚠️")
	case errors.Is(err, services.ErrAlreadyRegistered):
		d.answer(cb, "Вы уже записаны на это мероприятие. ✅")
	case err != nil:
		d.log.Error("registration failed",
			zap.Uint("user", u.ID), zap.Uint("event", eventID), zap.Error(err))
		d.answer(cb, "Произошла ошибка при регистрации. Попробуйте позже. ⚠️")
	default:
		d.answer(cb, "Вы зарегистрированы! ✅")
		d.reply(chat, fmt.Sprintf("Ваш код регистрации: <code>%s</code>\nПокажите QR на входе.", reg.Code), nil)
		if d.baseURL != "" {
			_ = d.c.SendPhoto(chat, d.baseURL+"/qr/"+url.PathEscape(reg.Code)+".png", "")
		}
	}
}

func (d *Dispatcher) handleUnregister(cb *CallbackQuery, eventID uint) {
	chat := cb.Message.Chat.ID
	u, err := services.UserByChatID(chat)
	if err != nil {
		d.answer(cb, "Пользователь не найден. ⚠️")
		return
	}
	regID, err := services.CancelRegistration(u.ID, eventID)
	if err != nil {
		d.log.Warn("cancel failed", zap.Uint("user", u.ID), zap.Uint("event", eventID), zap.Error(err))
		d.answer(cb, "Не удалось отменить регистрацию. ⚠️")
		return
	}
	d.answer(cb, "Регистрация отменена.")
	d.sessions.SetState(chat, session.StateAwaitingCancelReason)
	d.sessions.SetField(chat, session.FieldRegID, strconv.FormatUint(uint64(regID), 10))
	d.reply(chat, "Пожалуйста, укажите причину отмены:", CancelReasonKeyboard(regID))
}

func (d *Dispatcher) recordCancelReason(chat int64, reason string) {
	regID, _ := strconv.ParseUint(d.sessions.Field(chat, session.FieldRegID), 10, 64)
	d.sessions.Clear(chat)
	if regID == 0 {
		d.reply(chat, "Ошибка при записи причины отмены. ⚠️", RemoveKeyboard())
		return
	}
	if err := services.RecordNonAttendanceReason(uint(regID), reason); err != nil {
		d.log.Error("record reason failed", zap.Uint64("reg", regID), zap.Error(err))
		d.replyRetry(chat)
		return
	}
	d.reply(chat, "Причина записана. Спасибо!", RemoveKeyboard())
}

// --- profile view, stats, questions ---

func (d *Dispatcher) handleProfile(chat int64) {
	u, err := services.UserByChatID(chat)
	if err != nil {
		d.reply(chat, "Профиль не найден. Зарегистрируйтесь через /profilreg. ⚠️", nil)
		return
	}
	countG, _ := services.DonationCount(u.ID, models.CenterGavrilov)
	countF, _ := services.DonationCount(u.ID, models.CenterFMBA)
	last, _ := services.LastDonation(u.ID)
	lastStr := "Нет"
	if last != nil {
		lastStr = last.Date + " / " + last.Center
	}
	group, social := u.GroupName, "Нет"
	if group == "" {
		group = "Нет"
	}
	if u.SocialContacts != nil {
		social = *u.SocialContacts
	}
	marrow := "Нет"
	if u.MarrowRegistry {
		marrow = "Да"
	}
	text := fmt.Sprintf(
		"Ваш профиль: 📋\nФИО: %s\nКатегория: %s\nГруппа: %s\nСоцсети: %s 🔗\n"+
			"Статус: %s ⚙️\nКоличество донаций: %d 💉\nПоследняя донация: %s 📅\nВступление в ДКМ: %s 🦴",
		u.FullName, u.Category, group, social, u.ProfileStatus, countG+countF, lastStr, marrow)

	regs, _ := services.UserRegistrations(u.ID)
	if len(regs) == 0 {
		d.reply(chat, text, nil)
		return
	}
	text += "\n\nВаши текущие регистрации: 📅"
	buttons := make([]map[string]any, 0, len(regs))
	for _, r := range regs {
		text += fmt.Sprintf("\n• %s %s — %s", r.Date, r.Time, r.Description)
		buttons = append(buttons, btn(
			fmt.Sprintf("Отменить %s ❌", r.Date),
			fmt.Sprintf("unreg_%d", r.EventID)))
	}
	d.reply(chat, text, inline(buttons...))
}

func (d *Dispatcher) handleStats(chat int64) {
	u, err := services.UserByChatID(chat)
	if err != nil {
		d.reply(chat, "Вы не зарегистрированы. Используйте /profilreg. ⚠️", nil)
		return
	}
	regs, _ := services.UserRegistrations(u.ID)
	d.reply(chat, fmt.Sprintf("Ваша статистика: 📊\nЗарегистрировано на мероприятий: %d 📅", len(regs)), nil)
}

func (d *Dispatcher) handleAskStart(chat int64) {
	u, err := services.UserByChatID(chat)
	if err != nil || u.ProfileStatus != models.ProfileApproved {
		d.reply(chat, "Ваш профиль не одобрен или не существует. Зарегистрируйтесь через /profilreg. ⚠️", nil)
		return
	}
	d.sessions.SetState(chat, session.StateAwaitingQuestion)
	d.reply(chat, "Введите ваш вопрос организаторам:", BackKeyboard())
}

func (d *Dispatcher) submitQuestion(chat int64, text string) {
	if session.IsBack(text) {
		d.sessions.Clear(chat)
		d.reply(chat, "Операция отменена.", RemoveKeyboard())
		return
	}
	if text == "" {
		d.reply(chat, "Сообщение не может быть пустым. Попробуйте снова.", BackKeyboard())
		return
	}
	u, err := services.UserByChatID(chat)
	if err != nil {
		d.sessions.Clear(chat)
		d.reply(chat, "Пользователь не найден. ⚠️", RemoveKeyboard())
		return
	}
	qID, err := services.AddQuestion(u.ID, text)
	if err != nil {
		d.log.Error("add question failed", zap.Uint("user", u.ID), zap.Error(err))
		d.replyRetry(chat)
		return
	}
	d.sessions.Clear(chat)
	d.reply(chat, "Ваш вопрос отправлен организаторам. 📨", RemoveKeyboard())

	admins, _ := services.AdminChatIDs()
	for _, id := range admins {
		if err := d.c.SendMessage(id,
			fmt.Sprintf("Новый вопрос №%d от пользователя %s: %s\nОтветить: /answer", qID, u.FullName, text), nil); err != nil {
			d.log.Warn("admin notify failed", zap.Int64("admin", id), zap.Error(err))
		}
	}
}

// --- callbacks ---

func (d *Dispatcher) handleCallback(cb *CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	chat := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case data == "consent_yes":
		d.answer(cb, "")
		if phone := d.sessions.Field(chat, session.FieldPhone); phone != "" {
			if err := services.UpdateConsentByPhone(phone, true); err != nil {
				d.log.Error("consent update failed", zap.Error(err))
			}
		}
		d.sessions.SetField(chat, session.FieldConsent, "1")
		d.sessions.SetState(chat, session.StateAwaitingPhone)
		d.reply(chat, "Спасибо! Теперь поделитесь номером телефона для авторизации. 🔑", ContactKeyboard())

	case data == "consent_no":
		d.answer(cb, "")
		d.sessions.Clear(chat)
		d.reply(chat, "Без согласия бот не может работать. До свидания. 👋", RemoveKeyboard())

	case data == "confirm_yes":
		d.answer(cb, "")
		d.confirmExistingProfile(chat)

	case data == "confirm_no":
		d.answer(cb, "")
		d.startProfileForm(chat)

	case strings.HasPrefix(data, "cat_"):
		d.answer(cb, "")
		var res session.StepResult
		d.sessions.Update(chat, func(s *session.Session) {
			res = session.ChooseCategory(s, data)
		})
		if res.Action == session.ActionPrompt {
			d.prompt(chat, res.State)
		}

	case strings.HasPrefix(data, "reg_"):
		if id, ok := trailingID(data, "reg_"); ok {
			d.handleRegister(cb, id)
		}

	case strings.HasPrefix(data, "unreg_"):
		if id, ok := trailingID(data, "unreg_"); ok {
			d.handleUnregister(cb, id)
		}

	case strings.HasPrefix(data, "info_"):
		d.handleInfoCallback(cb)

	case strings.HasPrefix(data, "reason_"):
		d.handleReasonCallback(cb)

	default:
		d.handleAdminCallback(cb)
	}
}

func (d *Dispatcher) confirmExistingProfile(chat int64) {
	phone := d.sessions.Field(chat, session.FieldPhone)
	consent := d.sessions.Field(chat, session.FieldConsent) == "1"
	_, err := services.ConfirmExisting(chat, phone, consent)
	switch {
	case errors.Is(err, services.ErrDuplicatePhone):
		d.sessions.Clear(chat)
		d.reply(chat, "Этот номер привязан к другому аккаунту. Обратитесь к администратору. ⚠️", RemoveKeyboard())
	case err != nil:
		d.log.Error("confirm existing failed", zap.Int64("chat", chat), zap.Error(err))
		d.replyRetry(chat)
	default:
		d.sessions.Clear(chat)
		d.reply(chat, "Авторизация успешна! 🎉", RemoveKeyboard())
		d.reply(chat, userHelpText, nil)
	}
}

// reason_med_N / reason_personal_N / reason_no_N
func (d *Dispatcher) handleReasonCallback(cb *CallbackQuery) {
	chat := cb.Message.Chat.ID
	parts := strings.SplitN(cb.Data, "_", 3)
	if len(parts) != 3 {
		return
	}
	regID, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return
	}
	reasons := map[string]string{
		"med":      "Медотвод",
		"personal": "Личные причины",
		"no":       "Не захотел",
	}
	reason, ok := reasons[parts[1]]
	if !ok {
		return
	}
	if err := services.RecordNonAttendanceReason(uint(regID), reason); err != nil {
		d.log.Error("record reason failed", zap.Uint64("reg", regID), zap.Error(err))
		d.answer(cb, "Произошла ошибка. Попробуйте позже. ⚠️")
		return
	}
	d.sessions.Clear(chat)
	d.answer(cb, "Причина записана. Спасибо!")
}

// --- outbound helpers ---

// Notify implements the scheduler's notifier for plain reminders.
func (d *Dispatcher) Notify(chatID int64, text string) error {
	return d.c.SendMessage(chatID, text, nil)
}

// SurveyNonAttendance implements the scheduler's non-attendance prompt.
func (d *Dispatcher) SurveyNonAttendance(chatID int64, registrationID uint) error {
	return d.c.SendMessage(chatID,
		"Вы зарегистрировались на прошедшее мероприятие, но не пришли. Укажите причину: ❓",
		CancelReasonKeyboard(registrationID))
}

// Broadcast fans text out to every consented user, as a photo caption when
// photoFileID is set. Per-recipient failures are logged and skipped; one dead
// chat never aborts the batch.
func (d *Dispatcher) Broadcast(text, photoFileID string) int {
	ids, err := services.ConsentedChatIDs()
	if err != nil {
		d.log.Error("broadcast recipient query failed", zap.Error(err))
		return 0
	}
	sent := 0
	for _, id := range ids {
		var err error
		if photoFileID != "" {
			err = d.c.SendPhoto(id, photoFileID, text)
		} else {
			err = d.c.SendMessage(id, text, nil)
		}
		if err != nil {
			d.log.Warn("broadcast delivery failed", zap.Int64("chat", id), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

func (d *Dispatcher) setPendingRestore(chat int64, users []models.User) {
	d.restoreMu.Lock()
	defer d.restoreMu.Unlock()
	d.pendingRestore[chat] = users
}

// takePendingRestore removes and returns the staged restore for a chat.
func (d *Dispatcher) takePendingRestore(chat int64) ([]models.User, bool) {
	d.restoreMu.Lock()
	defer d.restoreMu.Unlock()
	users, ok := d.pendingRestore[chat]
	delete(d.pendingRestore, chat)
	return users, ok
}

func (d *Dispatcher) reply(chat int64, text string, markup any) {
	if err := d.c.SendMessage(chat, text, markup); err != nil {
		d.log.Warn("send failed", zap.Int64("chat", chat), zap.Error(err))
	}
}

func (d *Dispatcher) replyRetry(chat int64) {
	d.reply(chat, "Произошла ошибка. Попробуйте позже. ⚠️", nil)
}

func (d *Dispatcher) answer(cb *CallbackQuery, text string) {
	if err := d.c.AnswerCallback(cb.ID, text); err != nil {
		d.log.Warn("callback answer failed", zap.Error(err))
	}
}

func (d *Dispatcher) prompt(chat int64, state session.State) {
	d.reply(chat, promptFor(state), formMarkup(state))
}

func formMarkup(state session.State) any {
	if state == session.StateCollectingCategory {
		return CategoryKeyboard()
	}
	return BackKeyboard()
}

func promptFor(state session.State) string {
	switch state {
	case session.StateCollectingName:
		return "Введите ваше ФИО (только буквы и пробелы, минимум фамилия и имя): ✍️"
	case session.StateCollectingCategory:
		return "Выберите категорию: 📂"
	case session.StateCollectingGroup:
		return "Введите номер группы (формат: Б21-302): 📚"
	case session.StateCollectingSocial:
		return "Введите контакты в соцсетях (или 'нет'): 🔗"
	}
	return ""
}

func rejectFor(state session.State) string {
	switch state {
	case session.StateCollectingName:
		return "ФИО должно содержать только буквы и пробелы, минимум два слова. Попробуйте снова. ⚠️"
	case session.StateCollectingGroup:
		return "Неверный формат группы (пример: Б21-302). Попробуйте снова. ⚠️"
	}
	return "Некорректный ввод. Попробуйте снова. ⚠️"
}

func trailingID(data, prefix string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
