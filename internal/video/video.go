// Package video извлекает идентификаторы роликов из пользовательских
// ссылок. Храним только идентификатор, никогда сырой URL.
package video

import (
	"errors"
	"regexp"
)

var ErrInvalidURL = errors.New("неподдерживаемая ссылка на видео")

// Принимаем только известные домены YouTube; идентификатор ролика —
// 11 символов из пути или параметра v.
var youtubeRe = regexp.MustCompile(
	`^(?:https?://)?(?:www\.)?(?:youtube|youtu|youtube-nocookie)\.(?:com|be)/` +
		`(?:watch\?v=|embed/|v/|.+\?v=)?([A-Za-z0-9_-]{11})(?:[&?#].*)?$`)

// ExtractID возвращает идентификатор ролика или ErrInvalidURL,
// если ссылка не похожа ни на один известный шаблон.
func ExtractID(rawURL string) (string, error) {
	m := youtubeRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", ErrInvalidURL
	}
	return m[1], nil
}
