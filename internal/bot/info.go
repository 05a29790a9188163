package bot

// Informational handouts shown by /info. The texts mirror the leaflets the
// organizers hand out at the venue.
const (
	infoBloodText = "О донорстве крови 🩸\n\n" +
		"Цельную кровь можно сдавать раз в 60 дней; мужчинам — до 5 раз в год, " +
		"женщинам — до 4. Перед донацией выспитесь, позавтракайте (каша на воде, " +
		"сладкий чай) и откажитесь от жирного, жареного и молочного накануне. " +
		"За 48 часов нельзя употреблять алкоголь, за 72 часа — принимать " +
		"аспирин и анальгетики.\n\n" +
		"С собой нужен паспорт. Донация занимает около 15 минут, весь визит — " +
		"примерно час, включая осмотр врача и отдых после."

	infoBoneText = "О донорстве костного мозга 🦴\n\n" +
		"Вступление в регистр доноров костного мозга (ДКМ) — это всего одна " +
		"пробирка крови на типирование. Шанс реально стать донором — около " +
		"1%, но для пациента совпавший донор — единственная надежда.\n\n" +
		"Если совпадение найдено, клетки забирают либо из периферической крови " +
		"(похоже на обычную донацию, 4-5 часов), либо из тазовой кости под " +
		"наркозом. Костный мозг полностью восстанавливается за 2-4 недели.\n\n" +
		"Отметку о желании вступить в регистр можно поставить прямо на Дне Донора."

	infoMIFIText = "О донациях в МИФИ 🏛\n\n" +
		"Дни Донора в МИФИ проходят несколько раз в год совместно с Центром " +
		"крови им. О.К. Гаврилова и Центром крови ФМБА. Запись через этого " +
		"бота: /reg после одобрения профиля.\n\n" +
		"В день донации возьмите паспорт и код регистрации (QR из бота). " +
		"Студентам предоставляется освобождение от занятий, всем донорам — " +
		"выплата на питание и два дня отдыха по заявлению."
)

func (d *Dispatcher) handleInfo(chat int64) {
	d.reply(chat, "Выберите раздел информации: 📖", inline(
		btn("О донорстве крови", "info_blood"),
		btn("О донорстве костного мозга", "info_bone"),
		btn("О донациях в МИФИ", "info_mifi"),
	))
}

func (d *Dispatcher) handleInfoCallback(cb *CallbackQuery) {
	chat := cb.Message.Chat.ID
	var text string
	switch cb.Data {
	case "info_blood":
		text = infoBloodText
	case "info_bone":
		text = infoBoneText
	case "info_mifi":
		text = infoMIFIText
	default:
		d.answer(cb, "Некорректный раздел. ⚠️")
		return
	}
	d.answer(cb, "")
	d.reply(chat, text, nil)
}
