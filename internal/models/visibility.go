package models

// privateCollections не отдаются публичным маршрутам.
var privateCollections = map[string]bool{
	CollectionContactMessages: true,
}

// PublicCollection — коллекция читается без авторизации.
func PublicCollection(collection string) bool {
	return KnownCollection(collection) && !privateCollections[collection]
}

// IsPublic: скрытые проекты и приложения (visible=false) и неопубликованные
// статьи видит только администратор.
func IsPublic(d ContentDocument) bool {
	if !PublicCollection(d.Collection) {
		return false
	}
	if v, ok := d.Payload["visible"].(bool); ok && !v {
		return false
	}
	if d.Collection == CollectionBlogs {
		published, _ := d.Payload["published"].(bool)
		return published
	}
	return true
}

// PublicView отбирает публичные документы и сортирует их для витрины:
// статьи от новых к старым, остальное по order.
func PublicView(collection string, docs []ContentDocument) []ContentDocument {
	out := make([]ContentDocument, 0, len(docs))
	for _, d := range docs {
		if IsPublic(d) {
			out = append(out, d)
		}
	}
	if collection == CollectionBlogs {
		SortByDate(out)
	} else {
		SortByOrder(out)
	}
	return out
}
