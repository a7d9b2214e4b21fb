package i18n

// Key identifies a display string.
type Key string

const (
	KeyAppTitle              Key = "appTitle"
	KeyStep1Title            Key = "step1Title"
	KeyStep1Description      Key = "step1Description"
	KeyTextareaPlaceholder   Key = "textareaPlaceholder"
	KeyProcessListButton     Key = "processListButton"
	KeyStep2Title            Key = "step2Title"
	KeyStep2Description      Key = "step2Description"
	KeyNumColorsLabel        Key = "numColorsLabel"
	KeyColors                Key = "colors"
	KeyPaletteEditorLabel    Key = "paletteEditorLabel"
	KeyChangeColorTitle      Key = "changeColorTitle"
	KeyAssignedProgress      Key = "assignedProgress"
	KeyUnassignedListTitle   Key = "unassignedListTitle"
	KeyGroup                 Key = "group"
	KeyAutoAssignButton      Key = "autoAssignButton"
	KeyAutoAssignTooltip     Key = "autoAssignTooltip"
	KeyShareImageButton      Key = "shareImageButton"
	KeyStartOverButton       Key = "startOverButton"
	KeyImageError            Key = "imageError"
	KeyShareTitle            Key = "shareTitle"
	KeyImageSavedToDownloads Key = "imageSavedToDownloads"
	KeyInstallPwaPrompt      Key = "installPwaPrompt"
	KeyInstallButton         Key = "installButton"
	KeyDismissButton         Key = "dismissButton"
	KeyEmptyList             Key = "emptyList"
	KeyChooseAction          Key = "chooseAction"
	KeySelectColor           Key = "selectColor"
	KeyTogglePerson          Key = "togglePerson"
	KeyQuit                  Key = "quit"
)

var translations = map[Language]map[Key]string{
	English: {
		KeyAppTitle:              "Team Color Sorter",
		KeyStep1Title:            "Step 1: Paste Your List",
		KeyStep1Description:      "Paste a list of names copied from WhatsApp or another source. Each name should be on a new line.",
		KeyTextareaPlaceholder:   "John Doe\nJane Smith\nPeter Jones...",
		KeyProcessListButton:     "Process List",
		KeyStep2Title:            "Step 2: Assign Colors",
		KeyStep2Description:      "Select a color, then pick a name from the list to assign it.",
		KeyNumColorsLabel:        "Number of Colors",
		KeyColors:                "colors",
		KeyPaletteEditorLabel:    "Palette & Editor",
		KeyChangeColorTitle:      "Change color",
		KeyAssignedProgress:      "Assigned",
		KeyUnassignedListTitle:   "Unassigned",
		KeyGroup:                 "Group",
		KeyAutoAssignButton:      "Auto Assign",
		KeyAutoAssignTooltip:     "Randomly distribute everyone who is still unassigned",
		KeyShareImageButton:      "Share Image",
		KeyStartOverButton:       "Start Over",
		KeyImageError:            "Could not generate or share image. Please try again.",
		KeyShareTitle:            "Team Assignments",
		KeyImageSavedToDownloads: "Image saved to your Documents folder!",
		KeyInstallPwaPrompt:      "Get the full app experience!",
		KeyInstallButton:         "Install",
		KeyDismissButton:         "Later",
		KeyEmptyList:             "The list has no names.",
		KeyChooseAction:          "What next?",
		KeySelectColor:           "Select color",
		KeyTogglePerson:          "Assign / unassign a name",
		KeyQuit:                  "Quit",
	},
	Latvian: {
		KeyAppTitle:              "Komandu Krāsu Šķirotājs",
		KeyStep1Title:            "1. Solis: Ielīmējiet savu sarakstu",
		KeyStep1Description:      "Ielīmējiet vārdu sarakstu, kas nokopēts no WhatsApp vai cita avota. Katram vārdam jābūt jaunā rindā.",
		KeyTextareaPlaceholder:   "Jānis Bērziņš\nAnna Liepiņa\nKārlis Ozoliņš...",
		KeyProcessListButton:     "Apstrādāt sarakstu",
		KeyStep2Title:            "2. Solis: Piešķiriet krāsas",
		KeyStep2Description:      "Izvēlieties krāsu, pēc tam izvēlieties vārdu no saraksta, lai to piešķirtu.",
		KeyNumColorsLabel:        "Krāsu skaits",
		KeyColors:                "krāsas",
		KeyPaletteEditorLabel:    "Palete un redaktors",
		KeyChangeColorTitle:      "Mainīt krāsu",
		KeyAssignedProgress:      "Piešķirti",
		KeyUnassignedListTitle:   "Nepiešķirti",
		KeyGroup:                 "Grupa",
		KeyAutoAssignButton:      "Piešķirt automātiski",
		KeyShareImageButton:      "Dalīties ar attēlu",
		KeyStartOverButton:       "Sākt no jauna",
		KeyImageError:            "Neizdevās izveidot vai nosūtīt attēlu. Lūdzu mēģiniet vēlreiz.",
		KeyShareTitle:            "Komandu sadalījums",
		KeyImageSavedToDownloads: "Attēls saglabāts jūsu Dokumentu mapē!",
		KeyInstallPwaPrompt:      "Iegūstiet pilnu lietotnes pieredzi!",
		KeyInstallButton:         "Instalēt",
		KeyDismissButton:         "Vēlāk",
		KeyEmptyList:             "Sarakstā nav neviena vārda.",
		KeyChooseAction:          "Ko darīt tālāk?",
		KeySelectColor:           "Izvēlēties krāsu",
		KeyTogglePerson:          "Piešķirt / noņemt vārdu",
		KeyQuit:                  "Iziet",
	},
	Russian: {
		KeyAppTitle:              "Сортировщик по цветам",
		KeyStep1Title:            "Шаг 1: Вставьте ваш список",
		KeyStep1Description:      "Вставьте список имен, скопированный из WhatsApp или другого источника. Каждое имя должно быть на новой строке.",
		KeyTextareaPlaceholder:   "Иван Иванов\nПетр Петров\nМария Сидорова...",
		KeyProcessListButton:     "Обработать список",
		KeyStep2Title:            "Шаг 2: Распределите цвета",
		KeyStep2Description:      "Выберите цвет, а затем имя из списка, чтобы присвоить его.",
		KeyNumColorsLabel:        "Количество цветов",
		KeyColors:                "цвета",
		KeyPaletteEditorLabel:    "Палитра и редактор",
		KeyChangeColorTitle:      "Изменить цвет",
		KeyAssignedProgress:      "Назначено",
		KeyUnassignedListTitle:   "Нераспределенные",
		KeyGroup:                 "Группа",
		KeyAutoAssignButton:      "Распределить автоматически",
		KeyShareImageButton:      "Поделиться",
		KeyStartOverButton:       "Начать заново",
		KeyImageError:            "Не удалось создать или отправить изображение. Пожалуйста, попробуйте еще раз.",
		KeyShareTitle:            "Распределение по командам",
		KeyImageSavedToDownloads: "Изображение сохранено в папку \"Документы\"!",
		KeyInstallPwaPrompt:      "Установите приложение для лучшего опыта!",
		KeyInstallButton:         "Установить",
		KeyDismissButton:         "Позже",
		KeyEmptyList:             "В списке нет имён.",
		KeyChooseAction:          "Что дальше?",
		KeySelectColor:           "Выбрать цвет",
		KeyTogglePerson:          "Назначить / снять имя",
		KeyQuit:                  "Выйти",
	},
}

// Translate returns the string for key in lang, falling back to English
// and then to the key itself.
func Translate(lang Language, key Key) string {
	if s, ok := translations[lang][key]; ok && s != "" {
		return s
	}
	if s, ok := translations[English][key]; ok {
		return s
	}
	return string(key)
}

// Messages returns every key translated into lang, with fallbacks applied.
func Messages(lang Language) map[string]string {
	out := make(map[string]string, len(translations[English]))
	for key := range translations[English] {
		out[string(key)] = Translate(lang, key)
	}
	return out
}
