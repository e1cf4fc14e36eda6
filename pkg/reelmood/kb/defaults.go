package kb

var defaultGenres = []Genre{
	{
		Name:    "action",
		Aliases: []string{"action movie", "action film"},
		Titles:  []string{"Die Hard", "Mad Max: Fury Road", "John Wick", "The Dark Knight", "Gladiator"},
	},
	{
		Name:    "comedy",
		Aliases: []string{"comedies", "comedic"},
		Titles:  []string{"Superbad", "The Hangover", "Groundhog Day", "Airplane!", "Anchorman"},
	},
	{
		Name:    "drama",
		Aliases: []string{"dramas", "dramatic"},
		Titles:  []string{"The Shawshank Redemption", "The Godfather", "Forrest Gump", "Schindler's List", "Good Will Hunting"},
	},
	{
		Name:    "horror",
		Aliases: []string{"scary movie", "scary movies", "slasher"},
		Titles:  []string{"The Shining", "Get Out", "Hereditary", "The Exorcist", "A Quiet Place"},
	},
	{
		Name:    "sci-fi",
		Aliases: []string{"science fiction", "scifi", "sci fi"},
		Titles:  []string{"Blade Runner", "The Matrix", "Inception", "Interstellar", "2001: A Space Odyssey"},
	},
	{
		Name:    "romance",
		Aliases: []string{"romantic", "romances", "love story"},
		Titles:  []string{"Casablanca", "The Notebook", "Pride and Prejudice", "Titanic", "La La Land"},
	},
	{
		Name:    "thriller",
		Aliases: []string{"thrillers", "suspense"},
		Titles:  []string{"Se7en", "The Silence of the Lambs", "Gone Girl", "Zodiac", "Prisoners"},
	},
	{
		Name:    "animation",
		Aliases: []string{"animated", "cartoon", "cartoons"},
		Titles:  []string{"Spirited Away", "Toy Story", "Up", "Coco", "WALL-E"},
	},
	{
		Name:    "fantasy",
		Aliases: []string{"fantasies"},
		Titles:  []string{"The Lord of the Rings: The Fellowship of the Ring", "Pan's Labyrinth", "The Princess Bride", "Harry Potter and the Prisoner of Azkaban", "Stardust"},
	},
	{
		Name:    "documentary",
		Aliases: []string{"documentaries", "docs"},
		Titles:  []string{"Free Solo", "Man on Wire", "Won't You Be My Neighbor?", "March of the Penguins", "Jiro Dreams of Sushi"},
	},
	{
		Name:    "mystery",
		Aliases: []string{"mysteries", "whodunit", "detective"},
		Titles:  []string{"Knives Out", "Memento", "Shutter Island", "The Prestige", "Gone Baby Gone"},
	},
}

var defaultDirectors = []string{
	"Christopher Nolan",
	"Steven Spielberg",
	"Quentin Tarantino",
	"Martin Scorsese",
	"Stanley Kubrick",
	"Denis Villeneuve",
	"Greta Gerwig",
	"Hayao Miyazaki",
	"Alfred Hitchcock",
	"Ridley Scott",
}

var defaultActors = []string{
	"Tom Hanks",
	"Meryl Streep",
	"Leonardo DiCaprio",
	"Denzel Washington",
	"Scarlett Johansson",
	"Keanu Reeves",
	"Natalie Portman",
	"Morgan Freeman",
	"Brad Pitt",
	"Viola Davis",
}
