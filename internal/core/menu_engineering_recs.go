package core

// recommendationFor looks up the canned BCG x ABC combined strategy string
// for the requested language, grounded on original_source's
// src/domain/menu_engineering.rs combined_strategy() match table. This is
// the "external translation table" spec §4.7 step 6 refers to: a static
// lookup, not a live call through the Groq translator, which is reserved
// for free-text catalog/recipe name translation.
func recommendationFor(bcg BCGClass, abc ABCClass, language string) string {
	table, ok := menuRecommendations[language]
	if !ok {
		table = menuRecommendations["en"]
	}
	key := bcgABCKey{bcg, abc}
	if rec, ok := table[key]; ok {
		return rec
	}
	return menuRecommendations["en"][key]
}

type bcgABCKey struct {
	bcg BCGClass
	abc ABCClass
}

var menuRecommendations = map[string]map[bcgABCKey]string{
	"en": {
		{BCGStar, ABCClassA}:      "Core menu item: protect quality, don't change price, ensure consistent availability.",
		{BCGStar, ABCClassB}:      "Strong performer. Consider a slight price increase (+5-10%) to maximize profit.",
		{BCGStar, ABCClassC}:      "Anomaly: high sales but low revenue contribution. Check portion size or pricing.",
		{BCGPlowhorse, ABCClassA}: "High volume, low margin. Reduce portion size by 10-15% or increase price by 15-20%.",
		{BCGPlowhorse, ABCClassB}: "Popular but thin margin. Optimize ingredient costs or find cheaper suppliers.",
		{BCGPlowhorse, ABCClassC}: "Low margin, low revenue contribution. Strong candidate for menu removal.",
		{BCGPuzzle, ABCClassA}:    "High margin, needs visibility. Move to the top of the menu, add a photo, bundle into combos.",
		{BCGPuzzle, ABCClassB}:    "Profitable but underselling. Improve presentation, staff training, menu positioning.",
		{BCGPuzzle, ABCClassC}:    "High margin but very low sales. Run a short promotion, then remove if it doesn't improve.",
		{BCGDog, ABCClassA}:       "Anomaly: low profit and low sales cannot generate high revenue contribution. Recheck the data.",
		{BCGDog, ABCClassB}:       "Unprofitable and unpopular. Remove from the menu this week.",
		{BCGDog, ABCClassC}:       "Low volume and low margin: consider retiring or reworking the recipe.",
	},
	"ru": {
		{BCGStar, ABCClassA}:      "Основа меню: защищайте качество, не меняйте цену, обеспечьте постоянную доступность.",
		{BCGStar, ABCClassB}:      "Сильная позиция. Рассмотрите небольшое повышение цены (+5-10%) для максимизации прибыли.",
		{BCGStar, ABCClassC}:      "Аномалия: высокие продажи, но низкий вклад в выручку. Проверьте размер порции или цену.",
		{BCGPlowhorse, ABCClassA}: "Большой объём, низкая маржа. Уменьшите порцию на 10-15% или поднимите цену на 15-20%.",
		{BCGPlowhorse, ABCClassB}: "Популярно, но маржа низкая. Оптимизируйте стоимость ингредиентов или найдите дешевле поставщиков.",
		{BCGPlowhorse, ABCClassC}: "Низкая маржа и низкий вклад в выручку. Сильный кандидат на удаление из меню.",
		{BCGPuzzle, ABCClassA}:    "Высокая маржа, нужна видимость. Переместите в топ меню, добавьте фото, создайте комбо.",
		{BCGPuzzle, ABCClassB}:    "Прибыльно, но недопродаётся. Улучшите подачу, обучите персонал, измените позицию в меню.",
		{BCGPuzzle, ABCClassC}:    "Высокая маржа, но очень низкие продажи. Проведите короткую акцию, затем удалите при отсутствии роста.",
		{BCGDog, ABCClassA}:       "Аномалия: низкая прибыль и низкие продажи не могут давать высокий вклад в выручку. Перепроверьте данные.",
		{BCGDog, ABCClassB}:       "Неприбыльно и непопулярно. Удалите из меню на этой неделе.",
		{BCGDog, ABCClassC}:       "Низкий объём и низкая маржа: рассмотрите вывод из меню или смену рецепта.",
	},
}
